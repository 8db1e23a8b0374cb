package uds_test

import (
	"testing"

	"github.com/funkylen/datastep-backend/internal/uds"
)

func TestResolve(t *testing.T) {
	units := []uds.Unit{
		{UserID: 7, Addresses: []string{"ленина", "пушкина"}},
		{UserID: 12, Addresses: []string{"гагарина"}},
	}

	tests := []struct {
		name       string
		units      []uds.Unit
		address    string
		wantUserID int64
		wantFound  bool
	}{
		{
			name:       "exact fragment match",
			units:      units,
			address:    "ул. Ленина 5",
			wantUserID: 7,
			wantFound:  true,
		},
		{
			name:       "case insensitive",
			units:      units,
			address:    "УЛ. ГАГАРИНА Д. 12",
			wantUserID: 12,
			wantFound:  true,
		},
		{
			name:       "second fragment of first unit",
			units:      units,
			address:    "пер. Пушкина 3",
			wantUserID: 7,
			wantFound:  true,
		},
		{
			name: "first configured unit wins",
			units: []uds.Unit{
				{UserID: 1, Addresses: []string{"ленина"}},
				{UserID: 2, Addresses: []string{"ленина"}},
			},
			address:    "ул. Ленина 5",
			wantUserID: 1,
			wantFound:  true,
		},
		{
			name:      "no match",
			units:     units,
			address:   "ул. Мира 1",
			wantFound: false,
		},
		{
			name:      "empty units",
			units:     nil,
			address:   "ул. Ленина 5",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, found := uds.Resolve(tt.units, tt.address)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if userID != tt.wantUserID {
				t.Errorf("userID = %d, want %d", userID, tt.wantUserID)
			}
		})
	}
}

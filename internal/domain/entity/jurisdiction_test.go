package entity

import "testing"

func TestJurisdiction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		j       Jurisdiction
		wantErr bool
	}{
		{
			name: "valid country code",
			j:    Jurisdiction{Code: "de", Name: "Germany"},
		},
		{
			name: "valid sub-national code",
			j:    Jurisdiction{Code: "us-de", Name: "Delaware"},
		},
		{
			name: "valid numeric suffix",
			j:    Jurisdiction{Code: "gb-sct1", Name: "Scotland test"},
		},
		{
			name:    "empty code",
			j:       Jurisdiction{Name: "Nowhere"},
			wantErr: true,
		},
		{
			name:    "uppercase code rejected",
			j:       Jurisdiction{Code: "DE", Name: "Germany"},
			wantErr: true,
		},
		{
			name:    "single letter code rejected",
			j:       Jurisdiction{Code: "d", Name: "Short"},
			wantErr: true,
		},
		{
			name:    "overlong suffix rejected",
			j:       Jurisdiction{Code: "us-californiaxx", Name: "California"},
			wantErr: true,
		},
		{
			name:    "missing name",
			j:       Jurisdiction{Code: "fr"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.j.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

package role

import "testing"

func TestIsGlobalValid(t *testing.T) {
	tests := []struct {
		role  string
		valid bool
	}{
		{"guest", true},
		{"player", true},
		{"admin", true},
		{"invalid", false},
		{"", false},
		{"Guest", false},
		{"Player", false},
		{"Admin", false},
		{"PlayerRole", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if IsGlobalValid(tt.role) != tt.valid {
				t.Errorf("IsGlobalValid(%q) = %v; want %v", tt.role, !tt.valid, tt.valid)
			}
		})
	}
}

package normalize

import "testing"

func TestEmail_StaffLogins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "ops@onecuponetree.org", "ops@onecuponetree.org"},
		{"mixed case from a sign-in form", "Ops@OneCupOneTree.ORG", "ops@onecuponetree.org"},
		{"pasted with whitespace", " \tops@onecuponetree.org\n", "ops@onecuponetree.org"},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName_StaffAndFarmerNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"staff name from the CLI", "  Aline  Uwase ", "Aline Uwase"},
		{"tab between given names", "Jean\tBosco  Niyonzima", "Jean Bosco Niyonzima"},
		{"case kept", "MUKAMANA Claudine", "MUKAMANA Claudine"},
		{"accents kept", "Théoneste  Habimana", "Théoneste Habimana"},
		{"blank", " \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

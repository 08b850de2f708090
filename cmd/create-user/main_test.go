package main

import "testing"

func TestValidateNewUser(t *testing.T) {
	cases := []struct {
		name, username, email, password string
		wantErr                         bool
	}{
		{"valid", "lyle", "lyle@example.com", "correct-horse", false},
		{"missing username", "", "lyle@example.com", "correct-horse", true},
		{"bad email", "lyle", "lyle.example.com", "correct-horse", true},
		{"short password", "lyle", "lyle@example.com", "short", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateNewUser(tc.username, tc.email, tc.password)
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

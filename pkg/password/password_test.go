package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Admin123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Admin123!" {
		t.Fatalf("hash equals plaintext")
	}
	if !Verify("Admin123!", hash) {
		t.Fatalf("Verify rejected the original password")
	}
	if Verify("Admin123?", hash) {
		t.Fatalf("Verify accepted a different password")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("Sup3r$ecret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := Hash("Sup3r$ecret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password are identical, salt missing")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if Verify("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("Verify accepted a malformed hash")
	}
	if Verify("whatever", "") {
		t.Fatalf("Verify accepted an empty hash")
	}
}

func TestMeetsPolicy(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Admin123!", true},
		{"aB3$efgh", true},
		{"short1A!", true},
		{"Ab1!", false},          // too short
		{"alllower1!", false},    // no uppercase
		{"ALLUPPER1!", false},    // no lowercase
		{"NoDigits!!", false},    // no digit
		{"NoSymbol123", false},   // no symbol
		{"", false},
	}
	for _, tc := range cases {
		if got := MeetsPolicy(tc.password); got != tc.want {
			t.Errorf("MeetsPolicy(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

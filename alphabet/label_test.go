package alphabet

import "testing"

func TestOneHot(t *testing.T) {
	l := OneHot('&')
	if !l.Test('&') {
		t.Error("OneHot('&') does not match '&'")
	}
	if l.Test('a') {
		t.Error("OneHot('&') unexpectedly matches 'a'")
	}
	if l.IsEpsilon() {
		t.Error("OneHot('&') reported as epsilon")
	}
}

func TestDigitBitmap(t *testing.T) {
	hi, lo := Digit.Uint128()
	if hi != 0 {
		t.Errorf("Digit high word = %#x, want 0", hi)
	}
	if lo != 0x03FF000000000000 {
		t.Errorf("Digit low word = %#x, want 0x03ff000000000000", lo)
	}
	for c := byte('0'); c <= '9'; c++ {
		if !Digit.Test(c) {
			t.Errorf("Digit does not match %q", c)
		}
	}
	if Digit.Test('a') {
		t.Error("Digit unexpectedly matches 'a'")
	}
}

func TestSpaceClass(t *testing.T) {
	for _, c := range []byte{'\t', '\n', '\x0B', '\x0C', '\r', ' '} {
		if !Space.Test(c) {
			t.Errorf("Space does not match %q", c)
		}
	}
	if Space.Test('a') {
		t.Error("Space unexpectedly matches 'a'")
	}
}

func TestWordClass(t *testing.T) {
	for c := byte('0'); c <= '9'; c++ {
		if !Word.Test(c) {
			t.Errorf("Word does not match digit %q", c)
		}
	}
	for c := byte('a'); c <= 'z'; c++ {
		if !Word.Test(c) {
			t.Errorf("Word does not match lowercase %q", c)
		}
	}
	for c := byte('A'); c <= 'Z'; c++ {
		if !Word.Test(c) {
			t.Errorf("Word does not match uppercase %q", c)
		}
	}
	if !Word.Test('_') {
		t.Error("Word does not match '_'")
	}
	if Word.Test(' ') {
		t.Error("Word unexpectedly matches space")
	}
}

func TestDotMatchesAllASCII(t *testing.T) {
	for c := 0; c < 128; c++ {
		if !Dot.Test(byte(c)) {
			t.Errorf("Dot does not match byte %d", c)
		}
	}
	if Dot.Test(200) {
		t.Error("Dot unexpectedly matches a non-ASCII byte")
	}
}

func TestEpsilonIsZero(t *testing.T) {
	if !Epsilon.IsEpsilon() {
		t.Error("Epsilon.IsEpsilon() = false")
	}
	for c := 0; c < 128; c++ {
		if Epsilon.Test(byte(c)) {
			t.Errorf("Epsilon unexpectedly matches byte %d", c)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	r := RangeLabel('a', 'c')
	for _, c := range []byte{'a', 'b', 'c'} {
		if !r.Test(c) {
			t.Errorf("RangeLabel('a','c') does not match %q", c)
		}
	}
	if r.Test('d') {
		t.Error("RangeLabel('a','c') unexpectedly matches 'd'")
	}
}

func TestUnion(t *testing.T) {
	u := OneHot('x').Union(OneHot('y'))
	if !u.Test('x') || !u.Test('y') {
		t.Error("Union does not match both members")
	}
	if u.Test('z') {
		t.Error("Union unexpectedly matches 'z'")
	}
}

func TestNonASCIINeverMatches(t *testing.T) {
	if Dot.Test(255) || Word.Test(255) || Digit.Test(255) {
		t.Error("a non-ASCII byte unexpectedly matched a label")
	}
}

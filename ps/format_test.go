package ps

import "testing"

func TestFormatTicks(t *testing.T) {
	cases := []struct {
		ticks uint64
		want  string
	}{
		{0, "0.000"},
		{1, "0.001"},
		{9, "0.009"},
		{10, "0.010"},
		{999, "0.999"},
		{1000, "1.000"},
		{1234, "1.234"},
		{54321, "54.321"},
	}
	for _, c := range cases {
		if got := FormatTicks(c.ticks); got != c.want {
			t.Errorf("FormatTicks(%d) = %q, want %q", c.ticks, got, c.want)
		}
	}
}

func TestTicksToParts(t *testing.T) {
	whole, hundreds, tens, ones := ticksToParts(4567)
	if whole != 4 || hundreds != 5 || tens != 6 || ones != 7 {
		t.Errorf("ticksToParts(4567) = (%d,%d,%d,%d), want (4,5,6,7)", whole, hundreds, tens, ones)
	}
}

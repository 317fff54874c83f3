package polybin

import "testing"

func TestPlanLayout(t *testing.T) {
	cases := []struct {
		ico, mp4, zip bool
		want          LayoutMode
	}{
		{true, true, false, ModeOverlayMp4First},
		{true, true, true, ModeOverlayMp4First},
		{false, true, false, ModeMp4First},
		{false, true, true, ModeMp4First},
		{true, false, false, ModeIcoFirst},
		{true, false, true, ModeIcoFirst},
		{false, false, true, ModeZipOnly},
		{false, false, false, ModeNone},
	}
	for _, c := range cases {
		got := planLayout(c.ico, c.mp4, c.zip)
		if got != c.want {
			t.Errorf("planLayout(ico=%v, mp4=%v, zip=%v) = %v, want %v", c.ico, c.mp4, c.zip, got, c.want)
		}
	}
}

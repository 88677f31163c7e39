package styles

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/safecore/internal/coreerr"
)

func TestKindStyle(t *testing.T) {
	transient := []coreerr.Kind{coreerr.KindRequestTimeout, coreerr.KindTransport, coreerr.KindOperationAborted}
	for _, k := range coreerr.Kinds() {
		want := ErrorText.GetForeground()
		for _, tk := range transient {
			if k == tk {
				want = WarningText.GetForeground()
			}
		}
		if got := KindStyle(k).GetForeground(); got != want {
			t.Errorf("KindStyle(%s) foreground = %v, want %v", k, got, want)
		}
	}
}

func TestOutcomeStyle_RendersText(t *testing.T) {
	for _, outcome := range []string{"success", "error", "other"} {
		if got := OutcomeStyle(outcome).Render(outcome); !strings.Contains(got, outcome) {
			t.Errorf("Render(%q) = %q", outcome, got)
		}
	}
}

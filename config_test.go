package gridlock

import (
	"strings"
	"testing"
)

func TestConfigValidateMessagesNameTheParameter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{Rows: 0, Cols: 3, Users: 2}, "rows"},
		{Config{Rows: 3, Cols: -2, Users: 2}, "cols"},
		{Config{Rows: 3, Cols: 3, Users: 0}, "users"},
	}
	for _, tc := range cases {
		err := tc.cfg.validate()
		if err == nil {
			t.Fatalf("expected error for %+v", tc.cfg)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("expected %q in error %q", tc.want, err.Error())
		}
	}
}

func TestEnsureLoggerNeverNil(t *testing.T) {
	t.Parallel()

	if ensureLogger(nil) == nil {
		t.Fatal("expected a usable logger for nil input")
	}
}

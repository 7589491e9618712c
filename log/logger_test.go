package log

import (
	"errors"
	"testing"
)

func TestSetLevelDoesNotPanic(t *testing.T) {
	SetLevel(DEBUG)
	defer SetLevel(INFO)
	Debugf("debug message %d", 1)
	Infof("info message %s", "x")
	Warnf("warn message")
	Errorf("error message: %v", errors.New("example"))
}

func TestRoundAndRoundPartyReturnUsableLoggers(t *testing.T) {
	rl := Round(3)
	if rl == nil {
		t.Fatal("Round returned a nil logger")
	}
	rl.Infof("round-scoped message")

	rpl := RoundParty(3, 7)
	if rpl == nil {
		t.Fatal("RoundParty returned a nil logger")
	}
	rpl.Infof("round+party-scoped message")
}

func TestSyncDoesNotPanic(t *testing.T) {
	// Console-encoded zap loggers over stderr commonly report
	// "sync /dev/stderr: invalid argument" in test harnesses; only fail
	// on an unexpected panic, not on that benign sync error.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Sync panicked: %v", r)
		}
	}()
	_ = Sync()
}

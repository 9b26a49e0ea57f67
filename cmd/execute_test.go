package cmd

import (
	"os"
	"testing"
)

func TestExecuteVersion(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	for _, arg := range []string{"version", "--version", "-v"} {
		os.Args = []string{"newsrag", arg}
		if err := Execute(); err != nil {
			t.Errorf("Execute() with %q = %v, want nil", arg, err)
		}
	}
}

func TestExecuteHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"newsrag", "help"}
	if err := Execute(); err != nil {
		t.Errorf("Execute() = %v, want nil", err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"newsrag", "bogus"}
	if err := Execute(); err == nil {
		t.Error("Execute() with unknown command = nil, want error")
	}
}

func TestExecuteNoArgsPrintsHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"newsrag"}
	if err := Execute(); err != nil {
		t.Errorf("Execute() = %v, want nil", err)
	}
}

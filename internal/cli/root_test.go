package cli

import (
	"testing"
)

func TestNewRootCommand_WiresSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "sleevectl" {
		t.Fatalf("unexpected use: %q", cmd.Use)
	}

	for _, name := range []string{"migrate", "add-user"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}

	flag := cmd.PersistentFlags().Lookup("dsn")
	if flag == nil {
		t.Fatal("dsn flag not registered")
	}
	if flag.Shorthand != "d" {
		t.Fatalf("unexpected shorthand: %q", flag.Shorthand)
	}
}

package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rnwolfe/triage/internal/config"
)

func TestRunConfigSetGet(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		if err := runConfigSet(configSetCmd, []string{"user.name", "Sam"}); err != nil {
			t.Fatalf("runConfigSet: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runConfigGet(configGetCmd, []string{"user.name"}); err != nil {
			t.Errorf("runConfigGet: %v", err)
		}
	})
	if strings.TrimSpace(out) != "Sam" {
		t.Errorf("get user.name = %q, want Sam", out)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.Name != "Sam" {
		t.Errorf("saved name = %q", cfg.User.Name)
	}
}

func TestRunConfigGet_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigGet(configGetCmd, []string{"not.a.real.key"})
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("err = %v, want unknown config key", err)
	}
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	configTestEnv(t)

	for _, args := range [][]string{
		{"rank.urgent_window", "soon"},
		{"rank.strategic.decay_rate", "-1"},
		{"display.color", "maybe"},
	} {
		if err := runConfigSet(configSetCmd, args); err == nil {
			t.Errorf("set %v: expected error", args)
		}
	}
	if config.Initialized() {
		t.Error("rejected values must not write a config file")
	}
}

func TestRunConfigUnset(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		if err := runConfigSet(configSetCmd, []string{"rank.urgent.due_today", "175"}); err != nil {
			t.Fatalf("runConfigSet: %v", err)
		}
		if err := runConfigUnset(configUnsetCmd, []string{"rank.urgent.due_today"}); err != nil {
			t.Fatalf("runConfigUnset: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runConfigGet(configGetCmd, []string{"rank.urgent.due_today"}); err != nil {
			t.Errorf("runConfigGet: %v", err)
		}
	})
	if strings.TrimSpace(out) != "180" {
		t.Errorf("after unset = %q, want 180", out)
	}
}

func TestRunConfigList(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigList(configListCmd, nil); err != nil {
			t.Fatalf("runConfigList: %v", err)
		}
	})
	for _, key := range config.ValidKeyNames() {
		if !strings.Contains(out, key) {
			t.Errorf("list missing %s", key)
		}
	}
}

func TestRunConfigShow(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigShow(configCmd, nil); err != nil {
			t.Fatalf("runConfigShow: %v", err)
		}
	})
	if !strings.Contains(out, "due within 3 days") {
		t.Errorf("show missing window:\n%s", out)
	}
	if !strings.Contains(out, config.GetPaths().DBFile) {
		t.Errorf("show missing db path:\n%s", out)
	}
}

func TestConfigWindowChangesRanking(t *testing.T) {
	configTestEnv(t)
	addTask(t, "Send invoice", "tomorrow", "medium", "medium", 1)

	captureStdout(t, func() {
		if err := runConfigSet(configSetCmd, []string{"rank.urgent_window", "0"}); err != nil {
			t.Fatalf("runConfigSet: %v", err)
		}
	})

	var v listView
	if err := json.Unmarshal([]byte(listAs(t, "json")), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(v.Tasks) != 1 || v.Tasks[0].Mode != "strategic" {
		t.Fatalf("tasks = %+v, want one strategic task", v.Tasks)
	}
	// 3 × 50 + 40 / (1 + 0.05) - (2 × 15 + 1 × 3)
	if v.Tasks[0].Score != 155.1 {
		t.Errorf("score = %v, want 155.1", v.Tasks[0].Score)
	}
}

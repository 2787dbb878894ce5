package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/session"
)

func TestFoldSessions(t *testing.T) {
	acc := session.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := foldSessions(context.Background(), acc, il2log.NewDefaultRegistry(), strings.NewReader(testLog), logger); err != nil {
		t.Fatalf("foldSessions() error = %v", err)
	}

	var buf bytes.Buffer
	if err := writeMissions(&buf, acc.Missions(), false); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["mission"] != "PH.mis" || got["started"] != "20:33:05" || got["ended"] != "20:34:05" {
		t.Errorf("mission = %v", got)
	}
	players := got["players"].(map[string]any)
	if len(players["User0"].([]any)) != 1 {
		t.Errorf("players = %v", players)
	}
}

// Package mcp adapts an external MCP world-state server to the world.World
// interface. The server owns the spatial simulation; this client only issues
// snapshot and move-to tool calls over a command transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"npcmind/internal/debug"
	"npcmind/internal/world"
)

// WorldClient talks to a spawned MCP world server. It satisfies world.World;
// tool calls use a background context because the interface carries none.
type WorldClient struct {
	client  *mcp.Client
	session *mcp.ClientSession
	dbg     *debug.Logger
}

func NewWorldClient(dbg *debug.Logger) *WorldClient {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "npcmind-world-client",
		Version: "v1.0.0",
	}, nil)
	return &WorldClient{client: client, dbg: dbg}
}

// Connect spawns the server command ("cmd arg arg ...") and opens a session.
func (w *WorldClient) Connect(ctx context.Context, command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return fmt.Errorf("empty world server command")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	transport := mcp.NewCommandTransport(cmd)

	session, err := w.client.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect to world server: %w", err)
	}
	w.session = session
	w.dbg.Printf("mcp: connected to world server %q", command)
	return nil
}

func (w *WorldClient) Close() error {
	if w.session != nil {
		return w.session.Close()
	}
	return nil
}

// Snapshot implements world.World via the get_snapshot tool.
func (w *WorldClient) Snapshot(characterID string) (world.Snapshot, error) {
	text, err := w.callTool(context.Background(), "get_snapshot", map[string]interface{}{
		"character_id": characterID,
	})
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap world.Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return world.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snap, nil
}

// MoveToward implements world.World via the move_toward tool. The server
// treats movement as instantaneous, so onArrival fires as soon as the call
// succeeds.
func (w *WorldClient) MoveToward(characterID, location string, onArrival func()) error {
	_, err := w.callTool(context.Background(), "move_toward", map[string]interface{}{
		"character_id": characterID,
		"location":     location,
	})
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", characterID, err)
	}
	if onArrival != nil {
		onArrival()
	}
	return nil
}

func (w *WorldClient) callTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	if w.session == nil {
		return "", fmt.Errorf("world client not connected")
	}

	result, err := w.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", err
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty response from %s", name)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return "", fmt.Errorf("unexpected content type from %s", name)
	}
	if result.IsError {
		return "", fmt.Errorf("%s", text.Text)
	}

	w.dbg.Printf("mcp: %s -> %d bytes", name, len(text.Text))
	return text.Text, nil
}

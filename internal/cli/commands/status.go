package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"BrainrotKeeper/internal/cli/api"
	"BrainrotKeeper/internal/config"
)

type dataResponse struct {
	Result string `json:"result"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show whether the stored token is accepted" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/test"
	store := tokenStore(cfg)
	token, _ := store.Load()
	resp, body, err := api.PostJSON(ctx, endpoint, struct{}{}, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var dr dataResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if login, err := store.LoadLogin(); err == nil && token != "" {
		fmt.Fprintln(Out, "Login:", login)
	}
	fmt.Fprintln(Out, "Status:", dr.Result)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"BrainrotKeeper/internal/cli/api"
	"BrainrotKeeper/internal/config"
)

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <login> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if err := Register(ctx, cfg, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Registered and logged in. Profile \"Default\" is ready.")
	return nil
}

// Register creates the user and persists the issued token.
func Register(ctx context.Context, cfg *config.Config, login, password string) error {
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/register"
	req := RegisterRequest{Login: login, Password: password}
	resp, body, err := api.PostJSON(ctx, endpoint, req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		store := tokenStore(cfg)
		if err := api.PersistAuthFromResponse(resp, store); err != nil {
			return fmt.Errorf("saving auth: %w", err)
		}
		return store.SaveLogin(login)
	case http.StatusConflict:
		return errors.New("login already in use")
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(registerCmd{}) }

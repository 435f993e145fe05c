package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"BrainrotKeeper/internal/catalog"
	"BrainrotKeeper/internal/config"
	"BrainrotKeeper/internal/handlers"
	"BrainrotKeeper/internal/repo"
	"BrainrotKeeper/internal/service"
	"BrainrotKeeper/internal/valuation"

	"go.uber.org/zap"
)

// newTestServer поднимает настоящий API поверх SQLite в памяти.
func newTestServer(t *testing.T) *config.Config {
	t.Helper()
	db, err := repo.InitDB(":memory:")
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	engine, err := valuation.New(catalog.Default(), valuation.AdditiveExcess)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	log := zap.NewNop().Sugar()
	userSvc := service.NewUserService(repo.NewUserRepository(db))
	invSvc := service.NewInventoryService(repo.NewProfileStore(db, nil), engine, service.InventoryOptions{MaxMutations: 5}, log)

	srvCfg := &config.Config{AuthSecret: "e2e-secret"}
	ts := httptest.NewServer(handlers.NewHandler(userSvc, invSvc, log, srvCfg).Router)
	t.Cleanup(ts.Close)
	return newTestConfig(t, ts.URL)
}

// run выполняет команду через Dispatch и возвращает код выхода и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

var uuidRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestCLI_EndToEnd(t *testing.T) {
	cfg := newTestServer(t)

	code, out := run(t, cfg, "register", "alice", "secret")
	if code != 0 {
		t.Fatalf("register: %d %s", code, out)
	}

	code, out = run(t, cfg, "profiles")
	if code != 0 || !strings.Contains(out, "- Default") {
		t.Fatalf("default profile expected: %d %s", code, out)
	}

	code, out = run(t, cfg, "profile-create", "Main")
	if code != 0 || !strings.Contains(out, "Account 1") {
		t.Fatalf("profile-create: %d %s", code, out)
	}

	code, out = run(t, cfg, "item-add", "--color", "Rainbow", "--mutation", "Lightning", "--account", "Account 1", "Main", "Graipuss Medussi")
	if code != 0 {
		t.Fatalf("item-add: %d %s", code, out)
	}
	if !strings.Contains(out, "15.0M") || !strings.Contains(out, "15,000,000") {
		t.Fatalf("formatted totals expected: %s", out)
	}
	id := uuidRe.FindString(out)
	if id == "" {
		t.Fatalf("item id not printed: %s", out)
	}

	code, out = run(t, cfg, "item-add", "Main", "Noobini Pizzanini")
	if code != 0 || !strings.Contains(out, "unassigned") {
		t.Fatalf("item-add unassigned: %d %s", code, out)
	}

	code, out = run(t, cfg, "items", "--sort", "total_asc", "Main")
	if code != 0 {
		t.Fatalf("items: %d %s", code, out)
	}
	if strings.Index(out, "Noobini Pizzanini") > strings.Index(out, "Graipuss Medussi") {
		t.Fatalf("total_asc order expected:\n%s", out)
	}
	if !strings.Contains(out, "Items: 2") {
		t.Fatalf("summary expected:\n%s", out)
	}

	code, out = run(t, cfg, "items", "--sort", "price", "Main")
	if code != 1 || !strings.Contains(out, "400") {
		t.Fatalf("bad sort must fail: %d %s", code, out)
	}

	code, out = run(t, cfg, "item-move", "Main", id, "Account 2")
	if code != 0 || !strings.Contains(out, "Account 2") {
		t.Fatalf("item-move: %d %s", code, out)
	}

	code, out = run(t, cfg, "account-remove", "Main", "Account 2")
	if code != 1 || !strings.Contains(out, "--yes") {
		t.Fatalf("account-remove must ask for --yes: %d %s", code, out)
	}
	code, out = run(t, cfg, "account-remove", "Main", "Account 2", "--yes")
	if code != 0 || !strings.Contains(out, "1 item(s) moved") {
		t.Fatalf("account-remove: %d %s", code, out)
	}

	file := filepath.Join(t.TempDir(), "main.csv")
	code, out = run(t, cfg, "export", "Main", file)
	if code != 0 {
		t.Fatalf("export: %d %s", code, out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("account,item,rarity,base_value,color,mutations,total")) {
		t.Fatalf("csv header: %s", data)
	}

	code, out = run(t, cfg, "profile-create", "Copy")
	if code != 0 {
		t.Fatalf("profile-create copy: %d %s", code, out)
	}
	code, out = run(t, cfg, "import", "Copy", file)
	if code != 0 || !strings.Contains(out, "Imported 2") {
		t.Fatalf("import: %d %s", code, out)
	}

	xlsx := filepath.Join(t.TempDir(), "main.xlsx")
	code, out = run(t, cfg, "export", "Main", xlsx)
	if code != 0 {
		t.Fatalf("export xlsx: %d %s", code, out)
	}
	if data, err := os.ReadFile(xlsx); err != nil || !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("xlsx must be a zip archive: %v", err)
	}

	code, out = run(t, cfg, "revalue", "Main")
	if code != 0 || !strings.Contains(out, "0 item(s) changed") {
		t.Fatalf("revalue: %d %s", code, out)
	}

	code, out = run(t, cfg, "item-remove", "Main", id)
	if code != 0 {
		t.Fatalf("item-remove: %d %s", code, out)
	}
	code, out = run(t, cfg, "item-remove", "Main", id)
	if code != 1 || !strings.Contains(out, "404") {
		t.Fatalf("second remove must be not found: %d %s", code, out)
	}

	code, out = run(t, cfg, "profile-delete", "Copy", "--yes")
	if code != 0 {
		t.Fatalf("profile-delete: %d %s", code, out)
	}
	code, out = run(t, cfg, "profile-show", "Copy")
	if code != 1 {
		t.Fatalf("deleted profile must be gone: %d %s", code, out)
	}

	code, out = run(t, cfg, "catalog")
	if code != 0 || !strings.Contains(out, "additive-excess") || !strings.Contains(out, "Rainbow") {
		t.Fatalf("catalog: %d %s", code, out)
	}

	code, out = run(t, cfg, "item-add", "Main")
	if code != 2 {
		t.Fatalf("usage error expected: %d %s", code, out)
	}

	code, _ = run(t, cfg, "logout")
	if code != 0 {
		t.Fatalf("logout failed")
	}
	code, out = run(t, cfg, "profiles")
	if code != 1 || !strings.Contains(out, "login") {
		t.Fatalf("profiles after logout: %d %s", code, out)
	}
}

func TestExplain(t *testing.T) {
	err := errors.New("plain")
	if explain(err) != err {
		t.Fatalf("non-API errors pass through")
	}
}

func TestProfilePath_Escapes(t *testing.T) {
	if got := profilePath("My Main", "items", "a/b"); got != "/api/profiles/My%20Main/items/a%2Fb" {
		t.Fatalf("path: %s", got)
	}
}

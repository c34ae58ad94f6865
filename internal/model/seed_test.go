package model

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barefoot/internal/config"
	"barefoot/internal/entity"
	"barefoot/internal/model/memory"
)

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestSeedDefaultUsersIsIdempotent(t *testing.T) {
	repo := memory.NewRepository()
	cfg := config.Config{SeedDefaultUsers: true, SeedPassword: "Password123"}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := SeedDefaultUsers(ctx, repo, prefixHasher{}, cfg); err != nil {
			t.Fatalf("seed run %d failed: %v", i, err)
		}
	}

	users, meta, err := repo.ListUsers(ctx, nil)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if meta.Total != 4 {
		t.Fatalf("expected 4 seeded users, got %d", meta.Total)
	}
	for _, u := range users {
		if !strings.HasPrefix(u.PasswordHash, "hashed:") {
			t.Fatalf("expected hashed password for %s", u.Email)
		}
	}

	requester, err := repo.GetUserByEmail(ctx, "requester@barefootnomad.com")
	if err != nil {
		t.Fatalf("load requester: %v", err)
	}
	manager, err := repo.GetUserByEmail(ctx, "manager@barefootnomad.com")
	if err != nil {
		t.Fatalf("load manager: %v", err)
	}
	if !requester.HasManager() || *requester.ManagerID != manager.ID {
		t.Fatal("expected requester to be assigned to the seeded manager")
	}
	if requester.ManagerName != "line manager" {
		t.Fatalf("unexpected manager name %q", requester.ManagerName)
	}
	if manager.Role != entity.RoleManager {
		t.Fatalf("unexpected manager role %q", manager.Role)
	}
}

func TestSeedDefaultUsersDisabledOrMissingPassword(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	if err := SeedDefaultUsers(ctx, repo, prefixHasher{}, config.Config{}); err != nil {
		t.Fatalf("disabled seeding should be a no-op: %v", err)
	}
	if err := SeedDefaultUsers(ctx, repo, prefixHasher{}, config.Config{SeedDefaultUsers: true}); err == nil {
		t.Fatal("expected error without seed password")
	}
}

func TestCreateRepositoryRejectsUnknownType(t *testing.T) {
	if _, err := InitRepository(&config.Config{DBType: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
	repo, err := InitRepository(&config.Config{DBType: DBTypeMemory})
	if err != nil || repo == nil {
		t.Fatalf("expected memory repository, got %v", err)
	}
}

func TestDialectorDSNs(t *testing.T) {
	cfg := &config.Config{DBUser: "nomad", DBPassword: "pw", DBAddr: "db", DBPort: "5432", DBName: "barefoot"}
	if got := postgresDSN(cfg); got != "host=db user=nomad password=pw dbname=barefoot port=5432 sslmode=disable TimeZone=UTC" {
		t.Fatalf("unexpected postgres dsn %q", got)
	}
	cfg.DBPort = "3306"
	if got := mysqlDSN(cfg); got != "nomad:pw@tcp(db:3306)/barefoot?charset=utf8mb4&parseTime=True&loc=UTC" {
		t.Fatalf("unexpected mysql dsn %q", got)
	}
	cfg.DSNURL = "explicit"
	if mysqlDSN(cfg) != "explicit" || postgresDSN(cfg) != "explicit" {
		t.Fatal("DSN_URL should win over discrete settings")
	}
}

func TestSQLiteDSNCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "barefoot.db")
	dsn, err := sqliteDSN(&config.Config{DBPath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dsn != path+"?_busy_timeout=5000&_journal_mode=WAL" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}

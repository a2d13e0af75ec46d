package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// target identifies the Spanner database the migrations are applied to.
type target struct {
	Project  string
	Instance string
	Database string
}

func (t target) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.Project, t.Instance)
}

func (t target) databasePath() string {
	return t.instancePath() + "/databases/" + t.Database
}

func main() {
	var t target
	flag.StringVar(&t.Project, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	flag.StringVar(&t.Instance, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	flag.StringVar(&t.Database, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "product-catalog-db"), "Spanner database ID")
	dir := flag.String("migrations", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Printf("Using Spanner emulator at %s", host)
	}

	if err := run(context.Background(), t, *dir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully!")
}

func run(ctx context.Context, t target, dir string) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	databaseAdmin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer databaseAdmin.Close()

	err = ensure(ctx, "instance "+t.Instance,
		func(ctx context.Context) error {
			_, err := instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.instancePath()})
			return err
		},
		func(ctx context.Context) error {
			op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
				Parent:     "projects/" + t.Project,
				InstanceId: t.Instance,
				Instance: &instancepb.Instance{
					Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", t.Project),
					DisplayName: "Search Instance",
					NodeCount:   1,
				},
			})
			if err != nil {
				return err
			}
			_, err = op.Wait(ctx)
			return err
		})
	if err != nil {
		return err
	}

	err = ensure(ctx, "database "+t.Database,
		func(ctx context.Context) error {
			_, err := databaseAdmin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.databasePath()})
			return err
		},
		func(ctx context.Context) error {
			op, err := databaseAdmin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
				Parent:          t.instancePath(),
				CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.Database),
			})
			if err != nil {
				return err
			}
			_, err = op.Wait(ctx)
			return err
		})
	if err != nil {
		return err
	}

	return applyMigrations(ctx, databaseAdmin, t.databasePath(), dir)
}

// ensure creates a resource when get reports it missing. AlreadyExists from
// create counts as success.
func ensure(ctx context.Context, what string, get, create func(context.Context) error) error {
	err := get(ctx)
	switch status.Code(err) {
	case codes.OK:
		log.Printf("%s already exists", what)
		return nil
	case codes.NotFound:
	default:
		return fmt.Errorf("failed to check %s: %w", what, err)
	}

	log.Printf("Creating %s...", what)
	if err := create(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to create %s: %w", what, err)
	}
	return nil
}

func applyMigrations(ctx context.Context, admin *database.DatabaseAdminClient, dbPath, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("No migration files in %s", dir)
		return nil
	}
	sort.Strings(files)

	current, err := admin.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: dbPath})
	if err != nil {
		return fmt.Errorf("failed to read database DDL: %w", err)
	}
	existing, err := existingObjects(current.GetStatements())
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		statements, err := pendingStatements(name, string(content), existing)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			log.Printf("Skipping %s, already applied", name)
			continue
		}

		log.Printf("Applying %s (%d statements)...", name, len(statements))
		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   dbPath,
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

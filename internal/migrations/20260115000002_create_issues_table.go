package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260115000002, down_20260115000002)
}

// up_20260115000002 creates the issues table
func up_20260115000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating issues table...")
	_, err := db.NewCreateTable().
		Model((*models.Issue)(nil)).
		IfNotExists().
		ForeignKey(`("reporter_id") REFERENCES "users" ("id")`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create issues table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_issues_reporter ON issues(reporter_id)`)
	if err != nil {
		return fmt.Errorf("failed to create issues reporter index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

func down_20260115000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping issues table...")
	_, err := db.NewDropTable().
		Model((*models.Issue)(nil)).
		IfExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop issues table: %w", err)
	}
	fmt.Println(" OK")
	return nil
}

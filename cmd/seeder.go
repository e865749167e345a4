package cmd

import (
	"fmt"
	"log"
	"time"

	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "milestones", "assignments", "initiatives", "projects", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email         string
			Name          string
			Role          string
			Department    string
			WorkloadCap   int
			OverBeyondCap int
		}{
			{"admin@mail.com", "Site Admin", userDatamodel.RoleAdmin, "IT", userDatamodel.DefaultWorkloadCap, userDatamodel.DefaultOverBeyondCap},
			{"pm@mail.com", "Putri PM", userDatamodel.RoleProgramManager, "PMO", userDatamodel.DefaultWorkloadCap, userDatamodel.DefaultOverBeyondCap},
			{"rnd@mail.com", "Raka RD", userDatamodel.RoleRDManager, "R&D", userDatamodel.DefaultWorkloadCap, userDatamodel.DefaultOverBeyondCap},
			{"manager@mail.com", "Maya Manager", userDatamodel.RoleManager, "Engineering", userDatamodel.DefaultWorkloadCap, userDatamodel.DefaultOverBeyondCap},
			{"fadhil@mail.com", "Fadhil", userDatamodel.RoleEmployee, "Engineering", userDatamodel.DefaultWorkloadCap, userDatamodel.DefaultOverBeyondCap},
			{"sari@mail.com", "Sari", userDatamodel.RoleEmployee, "Engineering", 80, userDatamodel.DefaultOverBeyondCap},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, department, workload_cap, over_beyond_cap, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role, u.Department, u.WorkloadCap, u.OverBeyondCap).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		var managerID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "manager@mail.com").Row().Scan(&managerID); err != nil {
			log.Fatalf("failed to lookup manager id: %v", err)
		}
		var fadhilID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "fadhil@mail.com").Row().Scan(&fadhilID); err != nil {
			log.Fatalf("failed to lookup employee id: %v", err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM projects WHERE name = ?", "Platform Revamp").Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO projects (name, description, status, manager_id, budget, estimated_hours, actual_hours, version, created_at, updated_at) VALUES (?, ?, 'active', ?, 50000, 1200, 300, 1, now(), now())",
				"Platform Revamp", "Replatforming of the internal tooling stack", managerID).Error; err != nil {
				log.Fatalf("failed to insert project: %v", err)
			}

			var projectID int64
			if err := db.Raw("SELECT id FROM projects WHERE name = ?", "Platform Revamp").Row().Scan(&projectID); err != nil {
				log.Fatalf("failed to lookup project id: %v", err)
			}

			if err := db.Exec(
				"INSERT INTO assignments (project_id, employee_id, role, involvement_percentage, assigned_date) VALUES (?, ?, 'developer', 60, now())",
				projectID, fadhilID).Error; err != nil {
				log.Fatalf("failed to insert assignment: %v", err)
			}

			due := time.Now().AddDate(0, 0, 5)
			if err := db.Exec(
				"INSERT INTO milestones (project_id, title, due_date, completed) VALUES (?, ?, ?, false)",
				projectID, "Alpha release", due).Error; err != nil {
				log.Fatalf("failed to insert milestone: %v", err)
			}
			fmt.Println("Seeded project with assignment and milestone")
		}

		if err := db.Raw("SELECT 1 FROM initiatives WHERE title = ?", "Internal Go workshop").Row().Scan(&exists); err != nil {
			due := time.Now().AddDate(0, 1, 0)
			if err := db.Exec(
				"INSERT INTO initiatives (title, description, created_by, assigned_to, status, workload_percentage, estimated_hours, due_date, created_at, updated_at) VALUES (?, ?, ?, ?, 'active', 10, 40, ?, now(), now())",
				"Internal Go workshop", "Prepare and run the quarterly Go workshop", managerID, fadhilID, due).Error; err != nil {
				log.Fatalf("failed to insert initiative: %v", err)
			}
			fmt.Println("Seeded initiative")
		}

		fmt.Println("Database seeded successfully")
	},
}

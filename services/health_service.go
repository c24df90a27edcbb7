package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vnkhanh/mentorship-backend/models"
)

// TableStatus is the outcome of counting the rows of one table.
type TableStatus struct {
	Status string `json:"status"`
	Count  *int64 `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

type HealthReport struct {
	Connected bool                   `json:"connected"`
	Error     string                 `json:"error,omitempty"`
	Tables    map[string]TableStatus `json:"tables"`
}

// Healthy reports whether the connection works and every table answered.
func (r HealthReport) Healthy() bool {
	if !r.Connected {
		return false
	}
	for _, t := range r.Tables {
		if t.Status != "ok" {
			return false
		}
	}
	return true
}

// StructureCheck describes whether a table and its expected columns exist.
type StructureCheck struct {
	Table          string   `json:"table"`
	Status         string   `json:"status"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type DiagnosticStats struct {
	TotalTables      int `json:"total_tables"`
	TablesOK         int `json:"tables_ok"`
	TablesWithErrors int `json:"tables_with_errors"`
}

type Diagnosis struct {
	Connection struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	} `json:"connection"`
	Structure       []StructureCheck `json:"structure"`
	Stats           DiagnosticStats  `json:"stats"`
	Recommendations []string         `json:"recommendations"`
}

func (d Diagnosis) Healthy() bool {
	return d.Connection.Success && d.Stats.TablesWithErrors == 0
}

var expectedColumns = map[string][]string{
	"users":                {"id", "email", "name", "image", "role"},
	"mentor_profiles":      {"id", "user_id", "nombre", "foto", "area_experiencia", "anos_experiencia", "disponibilidad", "descripcion", "activo"},
	"solicitante_profiles": {"id", "user_id", "nombre", "edad", "area_interes", "descripcion"},
	"solicitudes":          {"id", "solicitante_id", "mentor_id", "estado", "mensaje", "enlace_meet", "fecha_sesion", "created_at"},
	"sesiones":             {"id", "solicitud_id", "mentor_id", "solicitante_id", "fecha", "enlace_meet", "estado", "notas"},
}

type HealthService struct {
	db *gorm.DB
}

func NewHealthService(db *gorm.DB) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("cannot get DB instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Check pings the database and counts the rows of every application table.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{Tables: make(map[string]TableStatus, len(models.TableNames))}
	if err := s.ping(ctx); err != nil {
		report.Error = err.Error()
		return report
	}
	report.Connected = true

	db := s.db.WithContext(ctx)
	for _, table := range models.TableNames {
		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			report.Tables[table] = TableStatus{Status: "error", Error: err.Error()}
			continue
		}
		report.Tables[table] = TableStatus{Status: "ok", Count: &count}
	}
	return report
}

// Diagnose verifies the schema: every table must exist with its columns.
func (s *HealthService) Diagnose(ctx context.Context) Diagnosis {
	var d Diagnosis
	d.Structure = []StructureCheck{}
	d.Recommendations = []string{}

	if err := s.ping(ctx); err != nil {
		d.Connection.Error = err.Error()
	} else {
		d.Connection.Success = true
		migrator := s.db.WithContext(ctx).Migrator()
		for _, table := range models.TableNames {
			check := StructureCheck{Table: table, Status: "ok"}
			if !migrator.HasTable(table) {
				check.Status = "error"
				check.Error = "table does not exist"
			} else {
				for _, column := range expectedColumns[table] {
					if !migrator.HasColumn(table, column) {
						check.MissingColumns = append(check.MissingColumns, column)
					}
				}
				if len(check.MissingColumns) > 0 {
					check.Status = "error"
					check.Error = "missing columns"
				}
			}
			d.Structure = append(d.Structure, check)
		}
	}

	d.Stats.TotalTables = len(d.Structure)
	for _, check := range d.Structure {
		if check.Status == "ok" {
			d.Stats.TablesOK++
		} else {
			d.Stats.TablesWithErrors++
		}
	}
	if !d.Healthy() {
		d.Recommendations = []string{
			"run the schema migration (config.Migrate) against the database",
			"verify DATABASE_URL and the Supabase environment variables",
			"check the database role permissions",
		}
	}
	return d
}

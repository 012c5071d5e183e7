// backend/database/schema.go
package database

const CreateReadingsTable = `
CREATE TABLE IF NOT EXISTS readings (
	id          BIGINT AUTO_INCREMENT PRIMARY KEY,
	ts          DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	sensor_id   VARCHAR(64) NULL,
	farm_id     INT NULL,
	temperature DOUBLE NULL,
	humidity    DOUBLE NULL,
	ph          DOUBLE NULL,
	rainfall    DOUBLE NULL,
	n           INT NULL,
	p           INT NULL,
	k           INT NULL,
	INDEX idx_readings_farm_ts (farm_id, ts),
	INDEX idx_readings_ts (ts)
) ENGINE=InnoDB`

const CreateFarmsTable = `
CREATE TABLE IF NOT EXISTS farms (
	id       INT AUTO_INCREMENT PRIMARY KEY,
	name     VARCHAR(255) NOT NULL,
	location VARCHAR(255) NULL
) ENGINE=InnoDB`

const CreateModelsTable = `
CREATE TABLE IF NOT EXISTS models (
	id         INT AUTO_INCREMENT PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	path       VARCHAR(1024) NOT NULL,
	version    VARCHAR(64) NULL,
	accuracy   DOUBLE NULL,
	metadata   JSON NULL,
	active     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	INDEX idx_models_active (active, created_at)
) ENGINE=InnoDB`

// AllTables returns the DDL in creation order.
func AllTables() []string {
	return []string{
		CreateReadingsTable,
		CreateFarmsTable,
		CreateModelsTable,
	}
}

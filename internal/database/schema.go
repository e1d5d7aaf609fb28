package database

import (
	"context"
	"database/sql"
)

// schema holds the warehouse tables.  Statements are idempotent so the
// server can run them on every start; the store itself carries no
// other migration machinery.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username VARCHAR(64) NOT NULL,
		name VARCHAR(128) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('ADMIN','EMPLOYEE') NOT NULL DEFAULT 'EMPLOYEE',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS areas (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(128) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_areas_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS slots (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		area VARCHAR(128) NOT NULL,
		slot_id VARCHAR(64) NOT NULL,
		is_empty TINYINT(1) NOT NULL DEFAULT 1,
		product_id VARCHAR(64) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_slots_slot_id (slot_id),
		KEY idx_slots_area (area),
		KEY idx_slots_is_empty (is_empty)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		product_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		slot_id VARCHAR(64) NOT NULL,
		photo MEDIUMTEXT NOT NULL,
		qr_code TEXT NOT NULL,
		added_by VARCHAR(64) NOT NULL DEFAULT '',
		date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_products_product_id (product_id),
		KEY idx_products_slot (slot_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the warehouse tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

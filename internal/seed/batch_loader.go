package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadBatches ingests the CSV into the medicine_batches table, ignoring rows
// whose (user_id, batch_code) pair already exists. Expected columns:
// user_id, batch_code, name, quantity, unit_price, expiry_date, low_stock_threshold.
func LoadBatches(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load batch catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read batch header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start batch transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO medicine_batches (user_id, batch_code, name, quantity, unit_price, expiry_date, low_stock_threshold) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare batch insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read batch row: %v", err)
			continue
		}
		if len(record) < 7 {
			continue
		}
		userID, _ := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		batchCode := strings.TrimSpace(record[1])
		name := strings.TrimSpace(record[2])
		quantity, _ := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		unitPrice, _ := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		expiry := strings.TrimSpace(record[5])
		threshold, err := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
		if err != nil || threshold < 0 {
			threshold = 10
		}

		if userID <= 0 || batchCode == "" || name == "" || quantity < 0 {
			continue
		}

		var expiryVal any
		if expiry != "" {
			expiryVal = expiry
		}

		if _, err := stmt.Exec(userID, batchCode, name, quantity, unitPrice, expiryVal, threshold); err != nil {
			log.Printf("unable to insert batch %s: %v", batchCode, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit batch seed: %v", err)
	} else {
		log.Printf("seeded batch catalog with %d rows", rows)
	}
}

package sqlkv

// Note: `key`/`value` are reserved in MySQL; columns are prefixed everywhere.

const createTableSQL = `
CREATE TABLE IF NOT EXISTS kv_store (
  item_key   VARCHAR(191) NOT NULL PRIMARY KEY,
  item_value TEXT         NOT NULL
)`

// MySQL TEXT caps at 64KiB; the serialized collection can outgrow it.
const createTableMySQL = `
CREATE TABLE IF NOT EXISTS kv_store (
  item_key   VARCHAR(191) NOT NULL PRIMARY KEY,
  item_value LONGTEXT     NOT NULL
) DEFAULT CHARSET=utf8mb4`

const getSQL = `SELECT item_value FROM kv_store WHERE item_key = ?`

const deleteSQL = `DELETE FROM kv_store WHERE item_key = ?`

// Whole-value overwrite; there is no partial update path.
const upsertSQL = `
INSERT INTO kv_store (item_key, item_value)
VALUES (?, ?)
ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value`

const upsertMySQL = `
INSERT INTO kv_store (item_key, item_value)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE item_value = VALUES(item_value)`

package journal

// Schema is applied on every open. Create-if-absent keeps restarts from
// touching existing rows. Monetary columns are TEXT: decimals round-trip
// exactly and are summed in Go, so the circuit breaker's strict
// inequality never rides on float rounding.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price TEXT NOT NULL,
	profit TEXT NOT NULL DEFAULT '0',
	order_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);

CREATE TABLE IF NOT EXISTS performance (
	date TEXT PRIMARY KEY,
	returns REAL NOT NULL,
	volatility REAL NOT NULL,
	max_drawdown REAL NOT NULL
);
`

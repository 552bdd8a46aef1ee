// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	status TEXT NOT NULL,
	quantity REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL,
	stop_loss REAL,
	take_profit REAL,
	fees REAL NOT NULL DEFAULT 0,
	commission REAL NOT NULL DEFAULT 0,
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	profit_loss REAL NOT NULL DEFAULT 0,
	risk_reward_ratio REAL,
	notes TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
`

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stock-analyst/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Tracked tickers
	CREATE TABLE IF NOT EXISTS stocks (
		symbol TEXT PRIMARY KEY,
		company_name TEXT,
		sector TEXT,
		industry TEXT,
		last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Quarterly fundamentals
	CREATE TABLE IF NOT EXISTS fundamental_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		quarter INTEGER NOT NULL,
		year INTEGER NOT NULL,
		revenue REAL,
		operating_income REAL,
		net_income REAL,
		total_assets REAL,
		total_debt REAL,
		shareholders_equity REAL,
		cash_and_equivalents REAL,
		ebit_margin REAL,
		roe REAL,
		debt_to_equity REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (symbol) REFERENCES stocks (symbol),
		UNIQUE(symbol, quarter, year)
	);

	-- Daily price history with moving averages
	CREATE TABLE IF NOT EXISTS price_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATE NOT NULL,
		open_price REAL,
		high_price REAL,
		low_price REAL,
		close_price REAL,
		volume INTEGER,
		adj_close REAL,
		ma_20 REAL,
		ma_50 REAL,
		ma_200 REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (symbol) REFERENCES stocks (symbol),
		UNIQUE(symbol, date)
	);

	-- One row per symbol per analysis run
	CREATE TABLE IF NOT EXISTS analysis_results (
		symbol TEXT PRIMARY KEY,
		revenue_growth REAL,
		avg_ebit_margin REAL,
		current_price REAL,
		ma_20 REAL,
		ma_50 REAL,
		ma_200 REAL,
		price_vs_ma20 REAL,
		price_vs_ma50 REAL,
		price_vs_ma200 REAL,
		ma50_rising INTEGER NOT NULL DEFAULT 0,
		ranking_score REAL NOT NULL,
		recommendation TEXT NOT NULL,
		rank INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (symbol) REFERENCES stocks (symbol)
	);

	CREATE INDEX IF NOT EXISTS idx_fundamentals_symbol ON fundamental_data(symbol);
	CREATE INDEX IF NOT EXISTS idx_prices_symbol ON price_data(symbol);
	CREATE INDEX IF NOT EXISTS idx_prices_date ON price_data(date);
	CREATE INDEX IF NOT EXISTS idx_results_score ON analysis_results(ranking_score);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertStock inserts or refreshes a tracked ticker.
func (s *SQLiteStore) UpsertStock(ctx context.Context, info models.StockInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO stocks (symbol, company_name, sector, industry, last_updated)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, info.Symbol, info.CompanyName, info.Sector, info.Industry)
	if err != nil {
		return fmt.Errorf("failed to upsert stock: %w", err)
	}
	return nil
}

// GetStocks returns all tracked tickers.
func (s *SQLiteStore) GetStocks(ctx context.Context) ([]models.StockInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, company_name, sector, industry
		FROM stocks
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []models.StockInfo
	for rows.Next() {
		var info models.StockInfo
		var name, sector, industry sql.NullString
		if err := rows.Scan(&info.Symbol, &name, &sector, &industry); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		info.CompanyName = name.String
		info.Sector = sector.String
		info.Industry = industry.String
		stocks = append(stocks, info)
	}
	return stocks, rows.Err()
}

// SaveFundamentals saves quarterly fundamentals for a symbol.
func (s *SQLiteStore) SaveFundamentals(ctx context.Context, symbol string, records []models.FundamentalRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO fundamental_data
		(symbol, quarter, year, revenue, operating_income, net_income,
		 total_assets, total_debt, shareholders_equity, cash_and_equivalents,
		 ebit_margin, roe, debt_to_equity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx, symbol, r.Quarter, r.Year,
			nullFloat(r.Revenue), nullFloat(r.OperatingIncome), nullFloat(r.NetIncome),
			nullFloat(r.TotalAssets), nullFloat(r.TotalDebt), nullFloat(r.ShareholdersEquity),
			nullFloat(r.CashAndEquivalents),
			nullFloat(r.EBITMargin), nullFloat(r.ROE), nullFloat(r.DebtToEquity))
		if err != nil {
			return fmt.Errorf("failed to insert fundamental record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetFundamentals returns the newest quarters for a symbol, newest first.
func (s *SQLiteStore) GetFundamentals(ctx context.Context, symbol string, quarters int) ([]models.FundamentalRecord, error) {
	if quarters <= 0 {
		quarters = 4
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT quarter, year, revenue, operating_income, net_income,
		       total_assets, total_debt, shareholders_equity, cash_and_equivalents,
		       ebit_margin, roe, debt_to_equity
		FROM fundamental_data
		WHERE symbol = ?
		ORDER BY year DESC, quarter DESC
		LIMIT ?
	`, symbol, quarters)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals: %w", err)
	}
	defer rows.Close()

	var records []models.FundamentalRecord
	for rows.Next() {
		var r models.FundamentalRecord
		var revenue, opIncome, netIncome, assets, debt, equity, cash sql.NullFloat64
		var margin, roe, dte sql.NullFloat64
		if err := rows.Scan(&r.Quarter, &r.Year, &revenue, &opIncome, &netIncome,
			&assets, &debt, &equity, &cash, &margin, &roe, &dte); err != nil {
			return nil, fmt.Errorf("failed to scan fundamental record: %w", err)
		}
		r.Revenue = floatPtr(revenue)
		r.OperatingIncome = floatPtr(opIncome)
		r.NetIncome = floatPtr(netIncome)
		r.TotalAssets = floatPtr(assets)
		r.TotalDebt = floatPtr(debt)
		r.ShareholdersEquity = floatPtr(equity)
		r.CashAndEquivalents = floatPtr(cash)
		r.EBITMargin = floatPtr(margin)
		r.ROE = floatPtr(roe)
		r.DebtToEquity = floatPtr(dte)
		records = append(records, r)
	}
	return records, rows.Err()
}

// SavePrices saves daily price history for a symbol.
func (s *SQLiteStore) SavePrices(ctx context.Context, symbol string, prices []models.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_data
		(symbol, date, open_price, high_price, low_price, close_price,
		 volume, adj_close, ma_20, ma_50, ma_200)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		_, err := stmt.ExecContext(ctx, symbol, p.Date.Format("2006-01-02"),
			p.Open, p.High, p.Low, p.Close, p.Volume, p.AdjustedClose,
			nullFloat(p.MA20), nullFloat(p.MA50), nullFloat(p.MA200))
		if err != nil {
			return fmt.Errorf("failed to insert price point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPrices returns price history within a date range, oldest first.
func (s *SQLiteStore) GetPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, open_price, high_price, low_price, close_price,
		       volume, adj_close, ma_20, ma_50, ma_200
		FROM price_data
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		var date string
		var ma20, ma50, ma200 sql.NullFloat64
		if err := rows.Scan(&date, &p.Open, &p.High, &p.Low, &p.Close,
			&p.Volume, &p.AdjustedClose, &ma20, &ma50, &ma200); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		if p.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("failed to parse price date: %w", err)
		}
		p.MA20 = floatPtr(ma20)
		p.MA50 = floatPtr(ma50)
		p.MA200 = floatPtr(ma200)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// SaveAnalysisResult saves or replaces the result row for one symbol.
func (s *SQLiteStore) SaveAnalysisResult(ctx context.Context, result models.AnalysisResult) error {
	return s.execSaveResult(ctx, s.db.ExecContext, result)
}

type execFunc func(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

func (s *SQLiteStore) execSaveResult(ctx context.Context, exec execFunc, r models.AnalysisResult) error {
	_, err := exec(ctx, `
		INSERT OR REPLACE INTO analysis_results
		(symbol, revenue_growth, avg_ebit_margin, current_price,
		 ma_20, ma_50, ma_200, price_vs_ma20, price_vs_ma50, price_vs_ma200,
		 ma50_rising, ranking_score, recommendation, rank, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Symbol, nullFloat(r.RevenueGrowth), nullFloat(r.AvgEBITMargin), nullFloat(r.CurrentPrice),
		nullFloat(r.MA20), nullFloat(r.MA50), nullFloat(r.MA200),
		nullFloat(r.PriceVsMA20), nullFloat(r.PriceVsMA50), nullFloat(r.PriceVsMA200),
		r.MA50Rising, r.RankingScore, string(r.Recommendation), r.Rank, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// ReplaceAnalysisResults clears the previous run and stores the new batch
// atomically.
func (s *SQLiteStore) ReplaceAnalysisResults(ctx context.Context, results []models.AnalysisResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_results`); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	for _, r := range results {
		if err := s.execSaveResult(ctx, tx.ExecContext, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAnalysisResults returns all stored results sorted by score descending.
func (s *SQLiteStore) GetAnalysisResults(ctx context.Context) ([]models.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, revenue_growth, avg_ebit_margin, current_price,
		       ma_20, ma_50, ma_200, price_vs_ma20, price_vs_ma50, price_vs_ma200,
		       ma50_rising, ranking_score, recommendation, rank, created_at
		FROM analysis_results
		ORDER BY ranking_score DESC, rank ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis results: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var r models.AnalysisResult
		var growth, margin, price sql.NullFloat64
		var ma20, ma50, ma200, dev20, dev50, dev200 sql.NullFloat64
		var recommendation string
		if err := rows.Scan(&r.Symbol, &growth, &margin, &price,
			&ma20, &ma50, &ma200, &dev20, &dev50, &dev200,
			&r.MA50Rising, &r.RankingScore, &recommendation, &r.Rank, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		r.RevenueGrowth = floatPtr(growth)
		r.AvgEBITMargin = floatPtr(margin)
		r.CurrentPrice = floatPtr(price)
		r.MA20 = floatPtr(ma20)
		r.MA50 = floatPtr(ma50)
		r.MA200 = floatPtr(ma200)
		r.PriceVsMA20 = floatPtr(dev20)
		r.PriceVsMA50 = floatPtr(dev50)
		r.PriceVsMA200 = floatPtr(dev200)
		r.Recommendation = models.Recommendation(recommendation)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Reset drops all data and recreates the schema.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	drops := `
	DROP TABLE IF EXISTS analysis_results;
	DROP TABLE IF EXISTS price_data;
	DROP TABLE IF EXISTS fundamental_data;
	DROP TABLE IF EXISTS stocks;
	`
	if _, err := s.db.ExecContext(ctx, drops); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return s.initSchema()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

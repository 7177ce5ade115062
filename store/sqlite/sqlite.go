/*
Package sqlite provides a SQLite-backed implementation of the data-source
interfaces.

PURPOSE:
  Implements benefits.Store using SQLite. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  benefits.EnrollmentSource: enrollment rows per operator (series builder)
  benefits.ReportSource:     the three two-phase pagination queries
  benefits.ClaimSource:      unbounded billable claims per beneficiary
  benefits.OptionSource:     distinct filter dropdown values

FILTER COMPILATION:
  Report queries are composed from FilterSpec.Clauses(): each clause is a
  named SQL fragment with ? placeholders over the canonical join
  beneficiarios b JOIN procedimentos p ON p.cpf = b.cpf. No value is ever
  concatenated into SQL text.

DATE ENCODING:
  All dates are stored as YYYY-MM-DD TEXT, so lexicographic comparison is
  chronological and matches the engine's in-memory evaluation. Claim values
  are stored as decimal strings, never floats.

KEY TABLES:
  beneficiarios:  enrollment records (one row per enrollment episode)
  procedimentos:  claim records (joined to beneficiarios by CPF value)

INDEXES:
  - idx_beneficiarios_cpf / idx_procedimentos_cpf: the value join (hot path)
  - idx_beneficiarios_operadora: series builder
  - idx_procedimentos_competencia: report date range

WAL MODE:
  SQLite is opened with WAL for better read concurrency: the engine is
  read-only per request, and multiple report requests run concurrently.

USAGE:
  store, err := sqlite.New("./data/benefits.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - benefits/store.go: interface definitions
  - benefits/filter.go: clause production
  - benefits/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ampara/benefits-engine/benefits"
)

const dateLayout = "2006-01-02"

// Store implements benefits.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Enrollment records: one row per beneficiary enrollment episode.
	-- vigencia_inicio is never null; exclusao is null for rows never excluded.
	CREATE TABLE IF NOT EXISTS beneficiarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cpf TEXT NOT NULL,
		nome TEXT NOT NULL,
		operadora TEXT NOT NULL DEFAULT '',
		entidade TEXT NOT NULL DEFAULT '',
		plano TEXT,
		tipo TEXT NOT NULL DEFAULT '',
		situacao TEXT NOT NULL DEFAULT '',
		idade INTEGER NOT NULL DEFAULT 0,
		vigencia_inicio TEXT NOT NULL,
		exclusao TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_beneficiarios_cpf
		ON beneficiarios(cpf);
	CREATE INDEX IF NOT EXISTS idx_beneficiarios_operadora
		ON beneficiarios(operadora);
	CREATE INDEX IF NOT EXISTS idx_beneficiarios_nome
		ON beneficiarios(nome, cpf);

	-- Claim records: joined to beneficiarios by CPF value, not a foreign key.
	-- codigo_evento null means not a billable event.
	CREATE TABLE IF NOT EXISTS procedimentos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cpf TEXT NOT NULL,
		codigo_evento TEXT,
		descricao TEXT NOT NULL DEFAULT '',
		especialidade TEXT NOT NULL DEFAULT '',
		valor TEXT NOT NULL DEFAULT '0',
		competencia TEXT NOT NULL,
		data_atendimento TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_procedimentos_cpf
		ON procedimentos(cpf);
	CREATE INDEX IF NOT EXISTS idx_procedimentos_competencia
		ON procedimentos(competencia);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INGEST - Seeding and data loads (the engine itself never writes)
// =============================================================================

// SaveEnrollment inserts one enrollment record.
func (s *Store) SaveEnrollment(ctx context.Context, e benefits.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exclusao any
	if e.ExcludedAt != nil {
		exclusao = e.ExcludedAt.Format(dateLayout)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO beneficiarios
			(cpf, nome, operadora, entidade, plano, tipo, situacao, idade, vigencia_inicio, exclusao)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.CPF), e.Name, e.Operator, e.Entity, nullableString(e.Plan), e.Type,
		e.Status, e.Age, e.EffectiveFrom.Format(dateLayout), exclusao,
	)
	if err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

// SaveClaim inserts one claim record.
func (s *Store) SaveClaim(ctx context.Context, c benefits.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code any
	if c.EventCode != nil {
		code = *c.EventCode
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO procedimentos
			(cpf, codigo_evento, descricao, especialidade, valor, competencia, data_atendimento)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(c.CPF), code, c.Description, c.Specialty, c.Value.String(),
		c.Competency.Format(dateLayout), c.ServiceDate.Format(dateLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save claim: %w", err)
	}
	return nil
}

// =============================================================================
// ENROLLMENT SOURCE (benefits.EnrollmentSource interface)
// =============================================================================

// EnrollmentsByOperator returns every enrollment row of one operator.
func (s *Store) EnrollmentsByOperator(ctx context.Context, operator string) ([]benefits.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, cpf, nome, operadora, entidade, plano, tipo, situacao, idade,
		       vigencia_inicio, exclusao
		FROM beneficiarios
		WHERE operadora = ?
		ORDER BY cpf ASC, vigencia_inicio ASC
	`

	rows, err := s.db.QueryContext(ctx, query, operator)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []benefits.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func scanEnrollment(rows *sql.Rows) (benefits.Enrollment, error) {
	var (
		e        benefits.Enrollment
		cpf      string
		plano    sql.NullString
		vigencia string
		exclusao sql.NullString
	)

	err := rows.Scan(
		&e.ID, &cpf, &e.Name, &e.Operator, &e.Entity, &plano, &e.Type,
		&e.Status, &e.Age, &vigencia, &exclusao,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan enrollment: %w", err)
	}

	e.CPF = benefits.CPF(cpf)
	e.Plan = plano.String
	e.EffectiveFrom, err = time.Parse(dateLayout, vigencia)
	if err != nil {
		return e, fmt.Errorf("bad vigencia_inicio %q: %w", vigencia, err)
	}
	if exclusao.Valid {
		t, err := time.Parse(dateLayout, exclusao.String)
		if err != nil {
			return e, fmt.Errorf("bad exclusao %q: %w", exclusao.String, err)
		}
		e.ExcludedAt = &t
	}
	return e, nil
}

// =============================================================================
// REPORT SOURCE (benefits.ReportSource interface)
// =============================================================================

// BeneficiaryPage resolves one page of distinct beneficiary identities
// matching the filter (phase 1). Identities are distinct by CPF: episodes
// of the same person may spell the name differently, and the CPF must
// occupy exactly one page slot. The lexicographically smallest spelling
// represents the identity. Ordered by that name then CPF; offset/limit
// apply to identities, never to claim rows.
func (s *Store) BeneficiaryPage(ctx context.Context, spec benefits.FilterSpec, limit, offset int) ([]benefits.BeneficiaryKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := compileWhere(spec)
	query := `
		SELECT b.cpf, MIN(b.nome)
		FROM beneficiarios b
		JOIN procedimentos p ON p.cpf = b.cpf
		WHERE ` + where + `
		GROUP BY b.cpf
		ORDER BY MIN(b.nome) ASC, b.cpf ASC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve beneficiary page: %w", err)
	}
	defer rows.Close()

	var keys []benefits.BeneficiaryKey
	for rows.Next() {
		var cpf, name string
		if err := rows.Scan(&cpf, &name); err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary key: %w", err)
		}
		keys = append(keys, benefits.BeneficiaryKey{CPF: benefits.CPF(cpf), Name: name})
	}
	return keys, rows.Err()
}

// ClaimRows returns every matching claim row for exactly the given
// beneficiaries (phase 3). One beneficiary may contribute many rows; the
// result is not re-paginated.
func (s *Store) ClaimRows(ctx context.Context, spec benefits.FilterSpec, cpfs []benefits.CPF) ([]benefits.ReportRow, error) {
	if len(cpfs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := compileWhere(spec)
	query := `
		SELECT b.cpf, b.nome, b.operadora, b.entidade, b.plano, b.tipo, b.idade,
		       p.codigo_evento, p.descricao, p.especialidade, p.valor,
		       p.competencia, p.data_atendimento
		FROM beneficiarios b
		JOIN procedimentos p ON p.cpf = b.cpf
		WHERE ` + where + ` AND b.cpf IN (` + placeholders(len(cpfs)) + `)
		ORDER BY b.nome ASC, p.competencia DESC
	`
	for _, cpf := range cpfs {
		args = append(args, string(cpf))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	var result []benefits.ReportRow
	for rows.Next() {
		row, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanReportRow(rows *sql.Rows) (benefits.ReportRow, error) {
	var (
		row         benefits.ReportRow
		cpf         string
		plano       sql.NullString
		valor       string
		competencia string
		atendimento string
	)

	err := rows.Scan(
		&cpf, &row.Name, &row.Operator, &row.Entity, &plano, &row.Type, &row.Age,
		&row.EventCode, &row.Description, &row.Specialty, &valor,
		&competencia, &atendimento,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan report row: %w", err)
	}

	row.CPF = benefits.CPF(cpf)
	row.Plan = plano.String
	row.Value, err = decimal.NewFromString(valor)
	if err != nil {
		return row, fmt.Errorf("bad claim value %q: %w", valor, err)
	}
	row.Competency, err = time.Parse(dateLayout, competencia)
	if err != nil {
		return row, fmt.Errorf("bad competencia %q: %w", competencia, err)
	}
	row.ServiceDate, err = time.Parse(dateLayout, atendimento)
	if err != nil {
		return row, fmt.Errorf("bad data_atendimento %q: %w", atendimento, err)
	}
	return row, nil
}

// CountBeneficiaries returns the total distinct beneficiary count matching
// the filter (phase 4), independent of the row fetch.
func (s *Store) CountBeneficiaries(ctx context.Context, spec benefits.FilterSpec) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := compileWhere(spec)
	query := `
		SELECT COUNT(DISTINCT b.cpf)
		FROM beneficiarios b
		JOIN procedimentos p ON p.cpf = b.cpf
		WHERE ` + where + `
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count beneficiaries: %w", err)
	}
	return count, nil
}

// =============================================================================
// CLAIM SOURCE (benefits.ClaimSource interface)
// =============================================================================

// ClaimsByCPF returns all billable claims of the given beneficiaries,
// unbounded by any report range. Used by the trailing-spend aggregator.
func (s *Store) ClaimsByCPF(ctx context.Context, cpfs []benefits.CPF) ([]benefits.Claim, error) {
	if len(cpfs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT cpf, codigo_evento, descricao, especialidade, valor,
		       competencia, data_atendimento
		FROM procedimentos
		WHERE codigo_evento IS NOT NULL AND cpf IN (` + placeholders(len(cpfs)) + `)
		ORDER BY cpf ASC, competencia ASC
	`
	args := make([]any, len(cpfs))
	for i, cpf := range cpfs {
		args[i] = string(cpf)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()

	var claims []benefits.Claim
	for rows.Next() {
		var (
			c           benefits.Claim
			cpf         string
			code        string
			valor       string
			competencia string
			atendimento string
		)
		if err := rows.Scan(&cpf, &code, &c.Description, &c.Specialty, &valor, &competencia, &atendimento); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		c.CPF = benefits.CPF(cpf)
		c.EventCode = &code
		c.Value, err = decimal.NewFromString(valor)
		if err != nil {
			return nil, fmt.Errorf("bad claim value %q: %w", valor, err)
		}
		c.Competency, err = time.Parse(dateLayout, competencia)
		if err != nil {
			return nil, fmt.Errorf("bad competencia %q: %w", competencia, err)
		}
		c.ServiceDate, err = time.Parse(dateLayout, atendimento)
		if err != nil {
			return nil, fmt.Errorf("bad data_atendimento %q: %w", atendimento, err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// =============================================================================
// OPTION SOURCE (benefits.OptionSource interface)
// =============================================================================

// FilterOptions returns the distinct operator, entity, and type values.
func (s *Store) FilterOptions(ctx context.Context) (benefits.FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var options benefits.FilterOptions
	var err error
	if options.Operators, err = s.distinctColumn(ctx, "operadora"); err != nil {
		return options, err
	}
	if options.Entities, err = s.distinctColumn(ctx, "entidade"); err != nil {
		return options, err
	}
	if options.Types, err = s.distinctColumn(ctx, "tipo"); err != nil {
		return options, err
	}
	return options, nil
}

// distinctColumn is only ever called with fixed column names above.
func (s *Store) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM beneficiarios
		WHERE %s <> '' ORDER BY %s ASC`, column, column, column)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// =============================================================================
// FILTER COMPILATION
// =============================================================================

// compileWhere renders the spec's named clauses into one WHERE expression
// with bound parameters.
func compileWhere(spec benefits.FilterSpec) (string, []any) {
	clauses := spec.Clauses()
	parts := make([]string, 0, len(clauses))
	var args []any
	for _, c := range clauses {
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	return strings.Join(parts, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package repositories

// scanner abstracts pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

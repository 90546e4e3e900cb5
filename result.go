package sqlite

// Result summarizes a Conn.Exec call.
type Result struct {
	// RowsAffected is the number of rows changed by the executed statements,
	// not counting changes made by triggers.
	RowsAffected int64
	// LastInsertID is the rowid of the most recent successful INSERT on the connection.
	LastInsertID int64
}

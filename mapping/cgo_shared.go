//go:build !sqlite_use_static_lib

package mapping

/*
#cgo linux LDFLAGS: -lsqlite3
#cgo darwin LDFLAGS: -lsqlite3
#cgo freebsd LDFLAGS: -lsqlite3 -L/usr/local/lib
#cgo freebsd CFLAGS: -I/usr/local/include
#cgo windows LDFLAGS: -lsqlite3
#include <sqlite3.h>
*/
import "C"

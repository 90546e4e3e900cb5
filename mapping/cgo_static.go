//go:build sqlite_use_static_lib

package mapping

/*
#cgo linux LDFLAGS: -Wl,-Bstatic -lsqlite3 -Wl,-Bdynamic -lm -ldl -lpthread
#cgo darwin LDFLAGS: -lsqlite3
#cgo windows LDFLAGS: -Wl,-Bstatic -lsqlite3 -Wl,-Bdynamic
#include <sqlite3.h>
*/
import "C"

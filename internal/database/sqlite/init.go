package sqlite

import "github.com/seriesdb/seriesdb/pkg/driver"

func init() {
	driver.Register(NewDriver())
}

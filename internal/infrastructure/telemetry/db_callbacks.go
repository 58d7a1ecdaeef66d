package telemetry

import (
	"time"

	"gorm.io/gorm"
)

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// registerAround installs before/after hooks on every GORM operation.
// after receives the SQL verb so callers can label by it. When precede is
// set, after hooks run ahead of the callback named precede+"<op>", which is
// how otelgorm names its span-ending hooks ("otel:after:create", ...).
func registerAround(db *gorm.DB, prefix, precede string, before func(*gorm.DB), after func(verb string) func(*gorm.DB)) error {
	cb := db.Callback()
	ops := []struct {
		op, verb string
		before   registrar
		after    func() registrar
	}{
		{"create", "INSERT", cb.Create().Before("gorm:create"), func() registrar {
			c := cb.Create().After("gorm:create")
			if precede != "" {
				return c.Before(precede + "create")
			}
			return c
		}},
		{"query", "SELECT", cb.Query().Before("gorm:query"), func() registrar {
			c := cb.Query().After("gorm:query")
			if precede != "" {
				return c.Before(precede + "query")
			}
			return c
		}},
		{"update", "UPDATE", cb.Update().Before("gorm:update"), func() registrar {
			c := cb.Update().After("gorm:update")
			if precede != "" {
				return c.Before(precede + "update")
			}
			return c
		}},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete"), func() registrar {
			c := cb.Delete().After("gorm:delete")
			if precede != "" {
				return c.Before(precede + "delete")
			}
			return c
		}},
		{"row", "SELECT", cb.Row().Before("gorm:row"), func() registrar {
			c := cb.Row().After("gorm:row")
			if precede != "" {
				return c.Before(precede + "row")
			}
			return c
		}},
		{"raw", "RAW", cb.Raw().Before("gorm:raw"), func() registrar {
			c := cb.Raw().After("gorm:raw")
			if precede != "" {
				return c.Before(precede + "raw")
			}
			return c
		}},
	}

	for _, o := range ops {
		if err := o.before.Register(prefix+":before_"+o.op, before); err != nil {
			return err
		}
		if err := o.after().Register(prefix+":after_"+o.op, after(o.verb)); err != nil {
			return err
		}
	}
	return nil
}

// markStart stores the statement start time under key on the instance.
func markStart(key string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(key, time.Now())
	}
}

// elapsedSince returns how long ago markStart ran for this statement.
func elapsedSince(db *gorm.DB, key string) (time.Duration, bool) {
	v, ok := db.InstanceGet(key)
	if !ok {
		return 0, false
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

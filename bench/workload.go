package bench

import "math/rand"

// WorkloadType names a mixed read/write distribution to replay against a
// Baseline.
type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Reporting WorkloadType = "Reporting (Range)"
)

// ExecuteWorkload runs ops operations of the given distribution against
// b, drawing keys uniformly from [0, ops).
func ExecuteWorkload(b Baseline, w WorkloadType, ops int) error {
	for i := 0; i < ops; i++ {
		choice := rand.Intn(100)
		key := uint32(rand.Intn(ops))

		switch w {
		case OLTP:
			if choice < 90 {
				if _, err := b.Get(key); err != nil && err != ErrKeyNotFound {
					return err
				}
			} else if err := b.Insert(key, []byte("x")); err != nil {
				return err
			}
		case OLAP:
			if choice < 10 {
				if _, err := b.Get(key); err != nil && err != ErrKeyNotFound {
					return err
				}
			} else if err := b.Insert(key, []byte("x")); err != nil {
				return err
			}
		case Reporting:
			it, err := b.Range(key, key+100)
			if err != nil {
				return err
			}
			for it.Next() {
			}
			if err := it.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

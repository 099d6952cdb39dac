package domain

// Version is the optimistic concurrency token stored next to every mutable
// user and product. A fresh record starts at InitialVersion and every
// successful write stores Next(), so a value never repeats for one entity.
type Version int64

const InitialVersion Version = 1

func (v Version) Next() Version {
	return v + 1
}

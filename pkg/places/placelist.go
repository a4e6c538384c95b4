package places

// Contains reports whether a place with the given ID is in the list.
func Contains(list []Place, id string) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

// WithPlace returns a new list with p prepended, most recent first. If a place
// with the same ID is already present the original list is returned and
// added is false.
func WithPlace(list []Place, p Place) (updated []Place, added bool) {
	if Contains(list, p.ID) {
		return list, false
	}
	updated = make([]Place, 0, len(list)+1)
	updated = append(updated, p)
	updated = append(updated, list...)
	return updated, true
}

// WithoutPlace returns a new list without the place with the given ID. If no
// such place exists the original list is returned and removed is false.
func WithoutPlace(list []Place, id string) (updated []Place, removed bool) {
	if !Contains(list, id) {
		return list, false
	}
	updated = make([]Place, 0, len(list)-1)
	for _, p := range list {
		if p.ID != id {
			updated = append(updated, p)
		}
	}
	return updated, true
}

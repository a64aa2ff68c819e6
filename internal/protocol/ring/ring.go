package ring

import "ringchat/internal/domain"

// Successor returns the member after id in ring order, wrapping around.
func Successor(members []domain.ClientID, id domain.ClientID) (domain.ClientID, bool) {
	return neighbour(members, id, 1)
}

// Predecessor returns the member before id in ring order, wrapping around.
func Predecessor(members []domain.ClientID, id domain.ClientID) (domain.ClientID, bool) {
	return neighbour(members, id, -1)
}

func neighbour(members []domain.ClientID, id domain.ClientID, step int) (domain.ClientID, bool) {
	n := len(members)
	if n == 0 {
		return "", false
	}
	for i, m := range members {
		if m == id {
			return members[(i+step+n)%n], true
		}
	}
	return "", false
}

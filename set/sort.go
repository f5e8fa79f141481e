package set

import "golang.org/x/exp/slices"

func sortStrings(s []string) {
	slices.Sort(s)
}

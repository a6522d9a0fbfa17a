package acl

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

const wwwPrefix = "www."

// NormalizeDomain lower-cases a domain and gives it a leading "www." so
// bare and www forms compare equal.
func NormalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if !strings.HasPrefix(d, wwwPrefix) {
		d = wwwPrefix + d
	}

	return d
}

// DomainsEqual compares domains ignoring case and a leading "www.".
func DomainsEqual(a, b string) bool {
	return NormalizeDomain(a) == NormalizeDomain(b)
}

// ResolveDomain finds the item whose domain equals target under
// DomainsEqual. listing is the full vendor response that was searched; it is
// attached to the not-found error for diagnostics.
func ResolveDomain[T any](target string, items []T, domainOf func(T) string, listing any) (T, error) {
	for _, item := range items {
		if DomainsEqual(domainOf(item), target) {
			return item, nil
		}
	}

	var zero T

	return zero, domain.NewNotFoundErrorWithListing(
		"domain", target,
		fmt.Sprintf("Domain %s not found", target),
		listing,
	)
}

package v1

import (
	"fmt"
	"regexp"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// MemoryPattern is the quantity grammar the API server applies to memory strings.
const MemoryPattern = `^([+-]?[0-9.]+)([eEinumkKMGTP]*[-+]?[0-9]*)$`

var memoryRegexp = regexp.MustCompile(MemoryPattern)

// InvalidSpecificationError is returned when an H2OSpec violates its invariants.
// It is a caller error and must never be retried.
type InvalidSpecificationError struct {
	Errs field.ErrorList
}

func (e *InvalidSpecificationError) Error() string {
	return fmt.Sprintf("invalid H2O specification: %v", e.Errs.ToAggregate())
}

// Validate checks the spec and returns an *InvalidSpecificationError listing
// every violated field, or nil.
func (s *H2OSpec) Validate() error {
	var errs field.ErrorList
	specPath := field.NewPath("spec")

	if s.Nodes <= 0 {
		errs = append(errs, field.Invalid(specPath.Child("nodes"), s.Nodes, "must be greater than zero"))
	}

	hasVersion := s.Version != ""
	hasImage := s.CustomImage != nil
	switch {
	case hasVersion && hasImage:
		errs = append(errs, field.Forbidden(specPath.Child("customImage"), "version and customImage are mutually exclusive"))
	case !hasVersion && !hasImage:
		errs = append(errs, field.Required(specPath.Child("version"), "either version or customImage must be set"))
	case hasImage && s.CustomImage.Image == "":
		errs = append(errs, field.Required(specPath.Child("customImage", "image"), "image must not be empty"))
	}

	errs = append(errs, s.Resources.validate(specPath.Child("resources"))...)

	if len(errs) > 0 {
		return &InvalidSpecificationError{Errs: errs}
	}
	return nil
}

func (r *Resources) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList

	if r.CPU <= 0 {
		errs = append(errs, field.Invalid(path.Child("cpu"), r.CPU, "must be greater than zero"))
	}

	if !memoryRegexp.MatchString(r.Memory) {
		errs = append(errs, field.Invalid(path.Child("memory"), r.Memory, "must match "+MemoryPattern+", e.g. 1Gi or 1024Mi"))
	} else if _, err := resource.ParseQuantity(r.Memory); err != nil {
		errs = append(errs, field.Invalid(path.Child("memory"), r.Memory, err.Error()))
	}

	if p := r.MemoryPercentage; p != nil && (*p < 1 || *p > 100) {
		errs = append(errs, field.Invalid(path.Child("memoryPercentage"), *p, "must be within [1,100]"))
	}

	return errs
}

package vra

// Template is a JSON document fetched from the API describing the input
// shape of a provisioning or operation request. Values are the plain result
// of JSON decoding (maps, slices, scalars), so documents are acyclic and
// safe to copy recursively.
type Template map[string]interface{}

// Clone returns a deep copy of the template. Mutating the copy never aliases
// the original.
func (t Template) Clone() Template {
	if t == nil {
		return nil
	}

	cloned, _ := cloneValue(map[string]interface{}(t)).(map[string]interface{})

	return Template(cloned)
}

// ApplyPatch merges patch into a deep copy of the template and returns the
// copy. Only keys already present in the template are overwritten; when both
// sides hold a nested mapping the merge recurses, otherwise the patch value
// replaces the template value. Keys present only in the patch are dropped,
// so a patch can never introduce fields the server did not offer. The
// receiver is never mutated.
func (t Template) ApplyPatch(patch Template) Template {
	merged := t.Clone()
	patchMap(merged, patch)

	return merged
}

func patchMap(base map[string]interface{}, patch map[string]interface{}) {
	for key, patchValue := range patch {
		baseValue, ok := base[key]
		if !ok {
			continue
		}

		baseMap, baseIsMap := baseValue.(map[string]interface{})

		patchNested, patchIsMap := patchValue.(map[string]interface{})
		if baseIsMap && patchIsMap {
			patchMap(baseMap, patchNested)

			continue
		}

		base[key] = cloneValue(patchValue)
	}
}

func cloneValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		cloned := make(map[string]interface{}, len(typed))
		for key, nested := range typed {
			cloned[key] = cloneValue(nested)
		}

		return cloned
	case []interface{}:
		cloned := make([]interface{}, len(typed))
		for i, nested := range typed {
			cloned[i] = cloneValue(nested)
		}

		return cloned
	default:
		return value
	}
}

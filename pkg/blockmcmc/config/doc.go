/*
Package config resolves sampler parameters from a loosely typed bundle.

# Overview

A Bundle wraps a map[string]any holding everything one sampler invocation
needs: the model state handle, the vertex list, numeric knobs such as beta
and niter, and boolean flags. Two layers read from it:

  - Extract[T], the strict typed lookup used to resolve type-list fields
    during dispatch;
  - Decode, which fills a tagged parameter struct in one pass.

Bundles are built from run files (FromFile, FromYAML, FromJSON) or from
key=value command-line overrides (FromAssignments) and combined with With
and Merge.

# Extraction

Extract tries, in order, the stored value itself, the payload of a Holder,
and a dereferenced *T:

	st, err := config.Extract[*blockmodel.State[int32]](b, "state")

Failures are *ExtractionError values naming the field and the desired type.
They are configuration errors and are never retried.

# Struct Decoding

Parameter structs declare their fields once with `param` tags:

	type Params struct {
	    Beta  float64 `param:"beta"`
	    NIter int     `param:"niter"`
	    Hist  []int   `param:"hist,optional"`
	}

	var p Params
	err := config.Decode(b, &p)

Values of exactly the field's type are assigned without copying, so a
histogram slice passed in the bundle is the one the sampler updates.
Other values go through mapstructure; "inf" strings become +Inf and floats
with a fractional part are rejected for integer fields.

# File Loading

	b, err := config.FromFile("run.yaml")

# Thread Safety

Bundle is safe for concurrent reads. With and Merge return new bundles.
*/
package config

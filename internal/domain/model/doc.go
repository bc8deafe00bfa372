// Package model declares named, independently stored properties on runtime
// model types.
//
// A Type is built once, typically during package initialization, from a
// TypeBuilder that lists its bases, properties, methods and an optional init
// function. Instances created from a Type own a private storage cell per
// declared property, including every property inherited from its ancestry.
// Construction consumes keyword arguments matching declared fields and
// rejects anything left over unless the type's init function takes it.
//
//	var Student = model.NewType("Student").
//		Field("id", "first", "last").
//		MustBuild()
//
//	s, err := Student.New(model.Kwargs{"id": "1234"})
//
// Types are immutable after Build. Instances are not safe for concurrent
// mutation; callers sharing an instance across goroutines must lock around it.
package model

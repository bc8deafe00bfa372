// Package people declares a small family of model types and a proxy over
// them, together with the typed wrappers modelgen generates from schema.yaml.
//
// Person carries a name and greets with it. Student extends Person with an
// id and a school. PersonProxy mirrors Person and only accepts title-case
// names.
package people

//go:generate go run ../../../cmd/modelgen generate -s schema.yaml -o people_gen.go

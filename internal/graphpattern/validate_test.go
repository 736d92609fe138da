package graphpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ex     = "http://example.org/"
	exType = ex + "Thing"
	exHas  = ex + "has"
	exName = ex + "name"
)

func TestValidate_ValidNestedOptionals(t *testing.T) {
	sel := Select{
		Vars: []Var{"thing", "name"},
		Where: Group{
			Triples: []Triple{T(Var("thing"), IRI(rdfType), IRI(exType))},
			Optionals: []Group{
				Optional(
					[]Triple{T(Var("thing"), IRI(exHas), Var("part"))},
					Optional([]Triple{T(Var("part"), IRI(exName), Var("name"))}),
				),
			},
		},
	}

	result := Validate(sel)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, result.Err())
}

func TestValidate_Errors(t *testing.T) {
	typed := T(Var("x"), IRI(rdfType), IRI(exType))

	tests := []struct {
		name    string
		sel     Select
		wantErr string
	}{
		{
			name:    "no projection",
			sel:     Select{Where: Group{Triples: []Triple{typed}}},
			wantErr: "no projected variables",
		},
		{
			name:    "projected but unbound",
			sel:     Select{Vars: []Var{"y"}, Where: Group{Triples: []Triple{typed}}},
			wantErr: "projected variable ?y is never bound",
		},
		{
			name:    "bad variable name",
			sel:     Select{Vars: []Var{"x"}, Where: Group{Triples: []Triple{typed, T(Var("x"), IRI(exName), Var("bad-name"))}}},
			wantErr: `invalid variable name "bad-name"`,
		},
		{
			name:    "empty group",
			sel:     Select{Vars: []Var{"x"}, Where: Group{Triples: []Triple{typed}, Optionals: []Group{{}}}},
			wantErr: "WHERE OPTIONAL 0: group has no triple patterns",
		},
		{
			name:    "literal subject",
			sel:     Select{Vars: []Var{"x"}, Where: Group{Triples: []Triple{typed, T(Literal{Lexical: "s"}, IRI(exName), Var("x"))}}},
			wantErr: "WHERE triple 1: subject must be a variable or IRI",
		},
		{
			name:    "relative predicate",
			sel:     Select{Vars: []Var{"x"}, Where: Group{Triples: []Triple{T(Var("x"), IRI("name"), Var("y"))}}},
			wantErr: `WHERE triple 0 predicate: "name" is not an absolute IRI`,
		},
		{
			name:    "missing object",
			sel:     Select{Vars: []Var{"x"}, Where: Group{Triples: []Triple{{Subject: Var("x"), Predicate: IRI(exName)}}}},
			wantErr: "WHERE triple 0: missing object",
		},
		{
			name: "variable shared by sibling optionals",
			sel: Select{
				Vars: []Var{"x", "n"},
				Where: Group{
					Triples: []Triple{typed},
					Optionals: []Group{
						Optional([]Triple{T(Var("x"), IRI(exName), Var("n"))}),
						Optional([]Triple{T(Var("x"), IRI(exHas), Var("n"))}),
					},
				},
			},
			wantErr: "WHERE OPTIONAL 0: ?n also appears outside the OPTIONAL",
		},
		{
			name: "nested optional shares variable with a sibling",
			sel: Select{
				Vars: []Var{"x", "n"},
				Where: Group{
					Triples: []Triple{typed},
					Optionals: []Group{
						Optional(
							[]Triple{T(Var("x"), IRI(exHas), Var("p"))},
							Optional([]Triple{T(Var("p"), IRI(exName), Var("n")), T(Var("q"), IRI(exName), Var("n"))}),
						),
						Optional([]Triple{T(Var("x"), IRI(exHas), Var("q"))}),
					},
				},
			},
			wantErr: "?q also appears outside the OPTIONAL",
		},
		{
			name:    "bad prefix",
			sel:     Select{Prefixes: []Prefix{{Name: "ex", IRI: "relative/"}}, Vars: []Var{"x"}, Where: Group{Triples: []Triple{typed}}},
			wantErr: `prefix "ex"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.sel)
			require.False(t, result.Valid)
			require.Error(t, result.Err())
			assert.Contains(t, result.Err().Error(), tt.wantErr)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	sel := Select{
		Vars: []Var{"x", "x"},
		Where: Group{
			Triples: []Triple{T(Var("x"), IRI(rdfType), IRI(exType))},
			Optionals: []Group{
				Optional([]Triple{T(Var("x"), IRI(exName), Literal{Lexical: "n"})}),
			},
		},
	}

	result := Validate(sel)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{
		"variable ?x projected more than once",
		"WHERE OPTIONAL 0: binds no new variables",
	}, result.Warnings)
}

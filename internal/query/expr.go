package query

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/tablo/internal/model"
)

// Predicate is a compiled restaurant filter.
type Predicate func(model.Restaurant) bool

// CompileExpr compiles a CEL boolean expression over a restaurant. The
// variables are id, name, cuisine, location, opening and closing (strings),
// rating (double), total_tables and max_party (ints) and tables, a
// map from seat count to table count. For example:
//
//	cuisine == "Italian" && rating >= 4.0 && 6 in tables
//
// An empty expression matches every restaurant. Evaluation errors count as
// no match.
func CompileExpr(expr string) (Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(model.Restaurant) bool { return true }, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("cuisine", cel.StringType),
		cel.Variable("rating", cel.DoubleType),
		cel.Variable("location", cel.StringType),
		cel.Variable("total_tables", cel.IntType),
		cel.Variable("opening", cel.StringType),
		cel.Variable("closing", cel.StringType),
		cel.Variable("tables", cel.MapType(cel.IntType, cel.IntType)),
		cel.Variable("max_party", cel.IntType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter must be a boolean expression, got %s", ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return func(r model.Restaurant) bool {
		out, _, err := prog.Eval(activation(r))
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}

func activation(r model.Restaurant) map[string]any {
	tables := make(map[int64]int64, len(r.Tables))
	for size, count := range r.Tables {
		tables[int64(size)] = int64(count)
	}
	return map[string]any{
		"id":           r.ID,
		"name":         r.Name,
		"cuisine":      r.Cuisine,
		"rating":       r.Rating,
		"location":     r.Location,
		"total_tables": int64(r.TotalTables),
		"opening":      r.Opening,
		"closing":      r.Closing,
		"tables":       tables,
		"max_party":    int64(r.Tables.MaxSize()),
	}
}

// Package harness runs translation scenarios: YAML files that name Python
// sources, the units to translate from them and what each translation
// should produce.
//
// # Scenario Format
//
//	name: point_class
//	description: "Classes translate methods and properties"
//	sources:
//	  - programs/point.py
//	type_comments: true
//	unused: [debug]
//	flow:
//	  - translate: Point
//	    kind: class
//	    self_name: Point
//	  - translate: bad
//	    expect:
//	      case: error
//	      error: NOT_SUPPORTED
//	      message: "variable number of arguments"
//	      snippet: "*a"
//	assertions:
//	  - type: tree_contains
//	    unit: Point
//	    text: "property x"
//	  - type: error_count
//	    count: 1
//
// Source paths are relative to the scenario file. A flow step without an
// expect clause must translate.
//
// # Assertion Types
//
//   - tree_contains: the unit's tree dump contains the text
//   - tree_equals: the unit's tree dump is exactly the text
//   - error_count: exactly count units failed
//   - cached: the run's cache holds exactly count translations
//
// # Deterministic Testing
//
// Every scenario runs against a fresh workspace and an in-memory cache,
// with sequential run IDs (testutil.SequentialIDs) and a single worker,
// so the trace and its golden snapshot are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/point.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness

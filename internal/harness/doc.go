// Package harness runs popover scenarios against a real session.
//
// A scenario is a YAML file naming the rendered controls, the initial
// conditions store and a list of interactions (clicks, input changes, raw
// triggers). Each step may check the passes it produced; assertions check
// the final control states and store. Runs are deterministic: the session
// token is fixed and passes are numbered by a resettable logical clock, so
// a scenario's trace can be compared byte for byte with a golden file.
//
// Scenario format:
//
//	name: option_commits_label
//	description: choosing an option closes the popover and commits its label
//	strategies: [1]
//	controls:
//	  - {strategy: 1, condition: buy, index: 0, type: column_dropdown, initial_label: Select}
//	steps:
//	  - click: {strategy: 1, condition: buy, index: 0, type: column_dropdown, role: input}
//	  - click: {type: option-btn, strategy: 1, condition: buy, index: 0,
//	            field_type: column_dropdown, value: close, label: Close Price}
//	    expect: {passes: 2, store_updated: true}
//	assertions:
//	  - {type: control_state, control: column_dropdown@1_buy_0, opened: false, label: Close Price}
package harness

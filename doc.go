// Package uarm provides drawing and jog control for the uArm Swift robot arm.
//
// Strokes from a file or edges found in a photograph are scaled into a
// rectangle on the table in front of the arm and replayed as pen motion,
// lifting the pen wherever two consecutive points are too far apart.
//
// # Installation
//
//	go install github.com/gwillem/uarm/cmd/uarm@latest
//
// # Usage
//
// First, run setup to find the arm and write uarm.yaml:
//
//	uarm setup
//
// Then jog it, or draw:
//
//	uarm jog
//	uarm draw --dry-run cat.json
//	uarm edges portrait.jpg
//	uarm shell
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/uarm: CLI with setup, jog, draw, edges and shell commands
//   - pkg/draw: coordinate mapping, pen-lift segmentation and motion sequencing
//   - pkg/robot: configuration and the arm controller (jog, gripper, home)
//   - pkg/swift: uArm Swift serial protocol, connection and port discovery
//   - pkg/vision: edge extraction from photographs
//   - pkg/monitor: position polling for live displays
//   - pkg/shell: interactive control panel
package uarm

// Package engine implements the render engines that turn notebooks into HTML
// previews and downloadable notebook files.
//
// Two engines implement Engine:
//   - Native renders in-process: notebook cells through the pipeline package,
//     pages through html/template, notebook exports through the notebook package.
//   - Pandoc shells out to the pandoc CLI through a CommandRunner. Canceling the
//     context kills pandoc's whole process group.
//
// Output files are written next to their input unless Options.OutputFile is
// absolute. Result paths are absolute whenever the input path is.
package engine

/*
Package carve is a content aware image shrinking library: it rescales the
source image to a smaller width and/or height by repeatedly removing the
connected pixel path (seam) carrying the least visual importance, which
preserves the salient parts of the image far better than uniform scaling.

The package ships a command line interface supporting the different
rescaling options. To check the supported commands type:

	$ carve --help

In case you wish to integrate the API in a self constructed environment here
is a simple example:

	package main

	import (
		"fmt"

		"github.com/seamly/carve"
	)

	func main() {
		p := &carve.Processor{
			NewWidth:  800,
			NewHeight: 600,
		}

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error rescaling image: %s", err.Error())
		}
	}
*/
package carve

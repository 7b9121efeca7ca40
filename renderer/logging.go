package renderer

import "path-tracer/log"

var logger = log.New("renderer")

package scene

import "path-tracer/log"

var logger = log.New("scene")

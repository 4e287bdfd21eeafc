package config

import (
	clconfig "github.com/metrico/cloki-config"
	validator "gopkg.in/go-playground/validator.v9"
)

var Cloki *clconfig.ClokiConfig

// Validate checks decoded request props, set up once at route registration.
var Validate *validator.Validate

package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass authentication. They are matched against the route
// pattern, so /health/extra is not public.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper is the Skipper for JWTConfig on the root router.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

func IsPublicPath(path string) bool {
	return publicPaths[path]
}

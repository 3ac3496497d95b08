package clips

import "github.com/labstack/echo/v4"

type Handler interface {
	Submit() echo.HandlerFunc
	GetJob() echo.HandlerFunc
	ListJobs() echo.HandlerFunc
	Cancel() echo.HandlerFunc
}

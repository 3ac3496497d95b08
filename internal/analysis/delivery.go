package analysis

import "github.com/labstack/echo/v4"

type Handler interface {
	Analyze() echo.HandlerFunc
	GetByID() echo.HandlerFunc
	List() echo.HandlerFunc
	SearchMoments() echo.HandlerFunc
}

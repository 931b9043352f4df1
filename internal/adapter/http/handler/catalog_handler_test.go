package handler

import (
	"fmt"
	"net/http"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/response"
)

type CatalogHandlerSuite struct {
	suite.Suite
	app   *testApp
	token string
}

type recordBody struct {
	Data    response.RecordResponse `json:"data"`
	Message string                  `json:"message"`
}

func (s *CatalogHandlerSuite) SetupTest() {
	s.app = newTestApp()
	_, s.token = s.app.register("admin@test.com", true)
}

func (s *CatalogHandlerSuite) TearDownTest() {
	s.app.close()
}

func TestCatalogHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) create(path, body string) int64 {
	rr := s.app.do("POST", path, s.token, body)
	Expect(rr.Code).To(Equal(http.StatusOK), rr.Body.String())

	return decode[recordBody](rr).Data.ID
}

// seedChain creates brand, type, model and year and returns the model and
// year ids.
func (s *CatalogHandlerSuite) seedChain() (modelID, yearID int64) {
	brandID := s.create("/adminAuth/addVehicleBrand", `{"name": "Toyota"}`)
	typeID := s.create("/adminAuth/addVehicleType", fmt.Sprintf(`{"name": "SUV", "brandId": %d}`, brandID))
	modelID = s.create("/adminAuth/addVehicleModel", fmt.Sprintf(`{"name": "RAV4", "typeId": %d}`, typeID))
	yearID = s.create("/adminAuth/addVehicleYear", `{"year": 2024}`)

	return modelID, yearID
}

func (s *CatalogHandlerSuite) TestBrandLifecycle() {
	rr := s.app.do("POST", "/adminAuth/addVehicleBrand", s.token, `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	created := decode[recordBody](rr)

	Expect(created.Message).To(Equal("Vehicle brand added successfully"))
	Expect(created.Data.Values["name"]).To(Equal("Toyota"))

	rr = s.app.do("POST", "/adminAuth/addVehicleBrand", s.token, `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusConflict))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Message).To(Equal("Vehicle brand already exists."))

	rr = s.app.do("DELETE", fmt.Sprintf("/adminAuth/deleteVehicleBrand?id=%d", created.Data.ID), s.token, "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[recordBody](rr).Message).To(Equal("Vehicle brand deleted successfully"))

	rr = s.app.do("DELETE", fmt.Sprintf("/adminAuth/deleteVehicleBrand?id=%d", created.Data.ID), s.token, "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	rr = s.app.do("POST", "/adminAuth/addVehicleBrand", s.token, `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[recordBody](rr).Data.ID).NotTo(Equal(created.Data.ID))
}

func (s *CatalogHandlerSuite) TestPricelistRejectsDeletedModel() {
	modelID, yearID := s.seedChain()

	rr := s.app.do("DELETE", fmt.Sprintf("/adminAuth/deleteVehicleModel?id=%d", modelID), s.token, "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.app.do("POST", "/adminAuth/addVehicle", s.token,
		fmt.Sprintf(`{"code": "R-01", "price": 150000, "yearId": %d, "modelId": %d}`, yearID, modelID))

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	data := decode[response.ErrorResponse](rr)

	Expect(data.Error.Code).To(Equal(string(domain.CodeInvalidReference)))
	Expect(data.Error.Errors[0].Field).To(Equal("modelId"))
	Expect(data.Error.Errors[0].Message).To(Equal("Model`s id is invalid."))
}

func (s *CatalogHandlerSuite) TestPricelistAcceptsNumericLiterals() {
	modelID, yearID := s.seedChain()

	rr := s.app.do("POST", "/adminAuth/addVehicle", s.token,
		fmt.Sprintf(`{"code": "R-01", "price": 150000.50, "yearId": %d, "modelId": %d}`, yearID, modelID))

	Expect(rr.Code).To(Equal(http.StatusOK), rr.Body.String())

	created := decode[recordBody](rr)

	Expect(created.Message).To(Equal("Pricelist added successfully"))
	Expect(created.Data.Values["price"]).To(Equal("150000.50"))
	Expect(created.Data.Values["code"]).To(Equal("R-01"))
}

func (s *CatalogHandlerSuite) TestUpdatePricelist() {
	modelID, yearID := s.seedChain()

	id := s.create("/adminAuth/addVehicle",
		fmt.Sprintf(`{"code": "R-01", "price": "100", "yearId": %d, "modelId": %d}`, yearID, modelID))

	rr := s.app.do("PATCH", fmt.Sprintf("/adminAuth/updateVehicle?id=%d", id), s.token, `{"newPrice": "120"}`)

	Expect(rr.Code).To(Equal(http.StatusOK), rr.Body.String())

	updated := decode[recordBody](rr)

	Expect(updated.Message).To(Equal("Pricelist updated successfully"))
	Expect(updated.Data.Values["price"]).To(Equal("120"))
	Expect(updated.Data.Values["code"]).To(Equal("R-01"))

	rr = s.app.do("PATCH", fmt.Sprintf("/adminAuth/updateVehicle?id=%d", id), s.token, `{"newCode": "R-01"}`)

	Expect(rr.Code).To(Equal(http.StatusConflict))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Message).To(Equal("The new code is the same as the current code."))
}

func (s *CatalogHandlerSuite) TestUpdateRequiresIdAndFields() {
	rr := s.app.do("PATCH", "/adminAuth/updateVehicleBrand", s.token, `{"newBrandName": "Honda"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Field).To(Equal("brandId"))

	id := s.create("/adminAuth/addVehicleBrand", `{"name": "Toyota"}`)

	rr = s.app.do("PATCH", fmt.Sprintf("/adminAuth/updateVehicleBrand?brandId=%d", id), s.token, `{}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	data := decode[response.ErrorResponse](rr)

	Expect(data.Error.Code).To(Equal(string(domain.CodeValidation)))
	Expect(data.Error.Errors[0].Message).To(Equal("No fields to update"))
}

func (s *CatalogHandlerSuite) TestAdminRoutesRequireAdmin() {
	_, userToken := s.app.register("user@test.com", false)

	rr := s.app.do("POST", "/adminAuth/addVehicleBrand", userToken, `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusForbidden))

	data := decode[response.ErrorResponse](rr)

	Expect(data.Error.Code).To(Equal(string(domain.CodeForbidden)))
	Expect(data.Error.Errors[0].Message).To(Equal("Access forbidden."))

	rr = s.app.do("POST", "/adminAuth/addVehicleBrand", "", `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Message).To(Equal("Empty token."))

	rr = s.app.do("POST", "/adminAuth/addVehicleBrand", "not-a-jwt", `{"name": "Toyota"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Message).To(Equal("Wrong token."))
}

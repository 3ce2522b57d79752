package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceStationRouter() *gin.Engine {
	router := setupTestRouter()
	stations := router.Group("/service-stations", authed())
	stations.POST("", CreateServiceStation)
	stations.GET("", ListServiceStations)
	stations.GET("/:id/servicemen", ListServiceStationServicemen)
	return router
}

func TestCreateServiceStation(t *testing.T) {
	setupControllerEnv(t)
	router := serviceStationRouter()
	_, token := createServiceman(t, "reza@example.com", "09123456789")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"valid", map[string]string{"name": "Central", "address": "1 Azadi St", "phoneNumber": "02112345678"}, http.StatusCreated},
		{"name only", map[string]string{"name": "East"}, http.StatusCreated},
		{"missing name", map[string]string{"address": "somewhere"}, http.StatusBadRequest},
		{"bad phone number", map[string]string{"name": "West", "phoneNumber": "0211"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/service-stations", token, tt.body)
			statusOf(t, w, tt.wantStatus)

			if tt.wantStatus != http.StatusCreated {
				assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
				return
			}

			var station models.ServiceStation
			decodeData(t, w, &station)
			assert.NotZero(t, station.ID)
			assert.Equal(t, tt.body["name"], station.Name)
		})
	}
}

func TestCreateServiceStation_RequiresToken(t *testing.T) {
	setupControllerEnv(t)
	router := serviceStationRouter()

	w := doJSON(router, http.MethodPost, "/service-stations", "", map[string]string{"name": "Central"})
	statusOf(t, w, http.StatusUnauthorized)
}

func TestListServiceStations(t *testing.T) {
	db := setupControllerEnv(t)
	router := serviceStationRouter()
	_, token := createServiceman(t, "reza@example.com", "09123456789")

	require.NoError(t, db.Create(&models.ServiceStation{Name: "West"}).Error)
	require.NoError(t, db.Create(&models.ServiceStation{Name: "East"}).Error)

	w := doJSON(router, http.MethodGet, "/service-stations", token, nil)
	statusOf(t, w, http.StatusOK)

	var stations []models.ServiceStation
	decodeData(t, w, &stations)
	require.Len(t, stations, 2)
	assert.Equal(t, "East", stations[0].Name)
	assert.Equal(t, "West", stations[1].Name)
}

func TestListServiceStationServicemen(t *testing.T) {
	db := setupControllerEnv(t)
	router := serviceStationRouter()
	member, token := createServiceman(t, "reza@example.com", "09123456789")
	createServiceman(t, "other@example.com", "09350000000")

	station := models.ServiceStation{Name: "Central"}
	require.NoError(t, db.Create(&station).Error)
	require.NoError(t, db.Model(&models.Serviceman{}).Where("id = ?", member.ID).
		UpdateColumn("service_station_id", station.ID).Error)

	w := doJSON(router, http.MethodGet, "/service-stations/"+itoa(station.ID)+"/servicemen", token, nil)
	statusOf(t, w, http.StatusOK)

	var servicemen []models.Serviceman
	decodeData(t, w, &servicemen)
	require.Len(t, servicemen, 1)
	assert.Equal(t, member.ID, servicemen[0].ID)

	w = doJSON(router, http.MethodGet, "/service-stations/999/servicemen", token, nil)
	statusOf(t, w, http.StatusNotFound)
	assert.Equal(t, "SERVICE_STATION_NOT_FOUND", decodeEnvelope(t, w).Error.Code)

	w = doJSON(router, http.MethodGet, "/service-stations/abc/servicemen", token, nil)
	statusOf(t, w, http.StatusBadRequest)
	assert.Equal(t, "INVALID_ID", decodeEnvelope(t, w).Error.Code)
}

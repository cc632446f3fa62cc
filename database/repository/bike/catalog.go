package bikeRepo

import "bikereg/models"

// DefaultCatalog is the demo catalog served by the mocked serial lookup.
func DefaultCatalog() []models.Bike {
	details := []models.BikeDetails{
		{SerialNumber: "STN7736200", ModelDescription: "SCOTT Spark RC 900 World Cup", ShopName: "Velo Zurich"},
		{SerialNumber: "STN8823411", ModelDescription: "SCOTT Addict RC 15", ShopName: "Cycles Lausanne"},
		{SerialNumber: "STN5521090", ModelDescription: "SCOTT Genius eRIDE 910", ShopName: "Bike Center Bern"},
		{SerialNumber: "STN3310877", ModelDescription: "SCOTT Scale 940", ShopName: "Alpine Sports Chur"},
		{SerialNumber: "STN6602154", ModelDescription: "SCOTT Sub Cross eRIDE 20", ShopName: "Stadtvelo Basel"},
	}
	bikes := make([]models.Bike, 0, len(details))
	for _, d := range details {
		bikes = append(bikes, models.Bike{BikeDetails: d})
	}
	return bikes
}

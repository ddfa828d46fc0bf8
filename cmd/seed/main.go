// Command seed wipes and repopulates the database with demo users, the
// service catalog, and a few sample requests at different lifecycle stages.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/models"
	"github.com/agroconnect/agroconnect_backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	client := config.ConnectDB()
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := config.GetCollection(client, "users")
	services := config.GetCollection(client, "services")
	requests := config.GetCollection(client, "requests")

	for _, coll := range []*mongo.Collection{users, services, requests} {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Error clearing %s: %v", coll.Name(), err)
		}
	}
	log.Println("Cleared existing data")

	now := time.Now()

	seedUser(ctx, users, models.User{
		Name:  "Admin User",
		Email: "admin@agroconnect.com",
		Role:  models.RoleAdmin,
		Phone: "+1234567890",
		Address: &models.Address{
			Street: "123 Admin St", City: "Admin City", State: "AC", ZipCode: "12345",
		},
	}, "admin123", now)

	farmer1 := seedUser(ctx, users, models.User{
		Name:  "John Farmer",
		Email: "john@farm.com",
		Role:  models.RoleFarmer,
		Phone: "+1234567891",
		Address: &models.Address{
			Street: "456 Farm Road", City: "AgriCity", State: "FC", ZipCode: "54321",
		},
		FarmerInfo: &models.FarmerInfo{FarmSize: "50 acres", CropType: "Corn"},
	}, "farmer123", now)

	farmer2 := seedUser(ctx, users, models.User{
		Name:  "Sarah Farmer",
		Email: "sarah@farm.com",
		Role:  models.RoleFarmer,
		Phone: "+1234567892",
		Address: &models.Address{
			Street: "789 Ranch Lane", City: "Farmville", State: "FV", ZipCode: "67890",
		},
		FarmerInfo: &models.FarmerInfo{FarmSize: "30 acres", CropType: "Wheat"},
	}, "farmer456", now)

	provider1 := seedUser(ctx, users, models.User{
		Name:  "Drone Masters Inc",
		Email: "drone@service.com",
		Role:  models.RoleProvider,
		Phone: "+1234567893",
		Address: &models.Address{
			Street: "101 Tech Park", City: "Innovation City", State: "IC", ZipCode: "10101",
		},
		ProviderInfo: &models.ProviderInfo{ServiceType: models.CapabilityDrone},
	}, "provider123", now)

	provider2 := seedUser(ctx, users, models.User{
		Name:  "Tractor Services Co",
		Email: "tractor@service.com",
		Role:  models.RoleProvider,
		Phone: "+1234567894",
		Address: &models.Address{
			Street: "202 Equipment Rd", City: "Machinery Town", State: "MT", ZipCode: "20202",
		},
		ProviderInfo: &models.ProviderInfo{ServiceType: models.CapabilityTractor},
	}, "provider456", now)

	catalog := []models.Service{
		{
			Name:        "Drone Crop Spraying",
			Type:        models.ServiceTypeDrone,
			Description: "Precision crop spraying using advanced drone technology. Covers up to 50 acres per day.",
			BasePrice:   25, PriceUnit: models.PriceUnitAcre,
			Duration:     "2-3 hours per 10 acres",
			Requirements: []string{"Clear weather conditions", "Access to water source", "No flight restrictions"},
		},
		{
			Name:        "Tractor Plowing Service",
			Type:        models.ServiceTypeTractor,
			Description: "Professional land preparation and plowing services for large farm areas.",
			BasePrice:   50, PriceUnit: models.PriceUnitAcre,
			Duration:     "4-6 hours per 10 acres",
			Requirements: []string{"Clear field access", "No major obstacles", "Minimum 5 acres"},
		},
		{
			Name:        "Drone Crop Monitoring",
			Type:        models.ServiceTypeDrone,
			Description: "Aerial crop health monitoring and analysis with detailed reports.",
			BasePrice:   15, PriceUnit: models.PriceUnitAcre,
			Duration:     "1-2 hours per 20 acres",
			Requirements: []string{"Clear weather", "GPS coordinates", "Field boundaries"},
		},
		{
			Name:        "Tractor Harvesting",
			Type:        models.ServiceTypeTractor,
			Description: "Efficient harvesting service for various crops with modern equipment.",
			BasePrice:   75, PriceUnit: models.PriceUnitAcre,
			Duration:     "6-8 hours per 10 acres",
			Requirements: []string{"Mature crops", "Clear access paths", "Storage arrangements"},
		},
	}
	for i := range catalog {
		catalog[i].IsActive = true
		catalog[i].CreatedAt = now
		catalog[i].UpdatedAt = now
		res, err := services.InsertOne(ctx, catalog[i])
		if err != nil {
			log.Fatalf("Error seeding service %q: %v", catalog[i].Name, err)
		}
		catalog[i].ID = res.InsertedID.(primitive.ObjectID)
	}

	dayAgo := now.Add(-24 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)
	inWeek := now.Add(7 * 24 * time.Hour)
	inThreeDays := now.Add(3 * 24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	sampleRequests := []models.Request{
		{
			Reference:   newReference(),
			Farmer:      farmer1,
			Service:     catalog[0].ID,
			ServiceType: models.ServiceTypeDrone,
			FarmDetails: models.FarmDetails{
				Size: 20, Unit: models.SizeUnitAcre,
				Location:            "456 Farm Road, AgriCity",
				CropType:            "Corn",
				SpecialInstructions: "Avoid spraying near the pond",
			},
			ScheduledDate: &inWeek,
			ScheduledTime: "10:00 AM",
			Status:        models.StatusPending,
			EstimatedCost: models.EstimateCost(catalog[0].BasePrice, 20),
			FarmerNotes:   "Need this done before the rain season",
			CreatedAt:     now, UpdatedAt: now,
		},
		{
			Reference:   newReference(),
			Farmer:      farmer2,
			Service:     catalog[1].ID,
			Provider:    &provider2,
			ServiceType: models.ServiceTypeTractor,
			FarmDetails: models.FarmDetails{
				Size: 15, Unit: models.SizeUnitAcre,
				Location:            "789 Ranch Lane, Farmville",
				CropType:            "Wheat",
				SpecialInstructions: "Gentle slope area, be careful",
			},
			ScheduledDate: &inThreeDays,
			ScheduledTime: "2:00 PM",
			Status:        models.StatusAccepted,
			EstimatedCost: models.EstimateCost(catalog[1].BasePrice, 15),
			AcceptedAt:    &dayAgo,
			FarmerNotes:   "Preparing for winter planting",
			CreatedAt:     twoDaysAgo, UpdatedAt: dayAgo,
		},
		{
			Reference:   newReference(),
			Farmer:      farmer1,
			Service:     catalog[2].ID,
			Provider:    &provider1,
			ServiceType: models.ServiceTypeDrone,
			FarmDetails: models.FarmDetails{
				Size: 25, Unit: models.SizeUnitAcre,
				Location:            "456 Farm Road, AgriCity",
				CropType:            "Corn",
				SpecialInstructions: "Focus on the northern section",
			},
			ScheduledDate: &tomorrow,
			ScheduledTime: "9:00 AM",
			Status:        models.StatusInProgress,
			EstimatedCost: models.EstimateCost(catalog[2].BasePrice, 25),
			AcceptedAt:    &twoDaysAgo,
			StartedAt:     &dayAgo,
			FarmerNotes:   "Checking for pest damage",
			CreatedAt:     twoDaysAgo, UpdatedAt: dayAgo,
		},
	}
	for _, req := range sampleRequests {
		if _, err := requests.InsertOne(ctx, req); err != nil {
			log.Fatalf("Error seeding request %s: %v", req.Reference, err)
		}
	}

	log.Println("Database seeded successfully")
	log.Println("Admin: admin@agroconnect.com / admin123")
	log.Println("Farmers: john@farm.com / farmer123, sarah@farm.com / farmer456")
	log.Println("Providers: drone@service.com / provider123, tractor@service.com / provider456")
}

func seedUser(ctx context.Context, coll *mongo.Collection, user models.User, password string, now time.Time) primitive.ObjectID {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Error hashing password for %s: %v", user.Email, err)
	}
	user.Password = hashed
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := coll.InsertOne(ctx, user)
	if err != nil {
		log.Fatalf("Error seeding user %s: %v", user.Email, err)
	}
	return res.InsertedID.(primitive.ObjectID)
}

func newReference() string {
	return "REQ-" + strings.ToUpper(uuid.NewString()[:8])
}

// Command seedusers generates realistic random registration payloads for
// exercising the intake API. It prints each payload as JSON and, when an
// endpoint is supplied, posts it to /api/users/register.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
)

var (
	firstNames = []string{
		"Carlos Alberto", "Maria Elena", "Jose Antonio", "Ana Gabriela",
		"Luis Fernando", "Carmen Rosa", "Pedro Pablo", "Luisa Fernanda",
		"Miguel Angel", "Rosa Maria", "Juan Carlos", "Esperanza del Valle",
		"Rafael Eduardo", "Gloria Esperanza", "Andres Felipe", "Beatriz Elena",
	}

	lastNames = []string{
		"Gonzalez", "Rodriguez", "Martinez", "Garcia", "Lopez", "Hernandez",
		"Perez", "Sanchez", "Ramirez", "Torres", "Flores", "Rivera",
		"Gomez", "Diaz", "Morales", "Jimenez", "Alvarez", "Romero",
	}

	cities = []string{
		"Caracas", "Maracaibo", "Valencia", "Barquisimeto", "Maracay",
		"Ciudad Guayana", "Barcelona", "Maturin", "Puerto La Cruz", "Petare",
	}

	sectors = []string{
		"Las Mercedes", "El Rosal", "La Candelaria", "Chacao", "Altamira",
		"Los Palos Grandes", "San Bernardino", "El Valle", "Catia", "Propatria",
	}

	phonePrefixes = []string{"0414", "0424", "0416", "0426", "0412"}

	employeePositions = []string{
		"Gerente de Ventas", "Analista Contable", "Asistente Administrativo",
		"Supervisor de Operaciones", "Coordinador de Marketing", "Especialista en RRHH",
	}

	businessPositions = []string{
		"Dueno de Tienda", "Comerciante", "Prestador de Servicios",
		"Empresario", "Consultor Independiente", "Tecnico Especializado",
	}

	relations = []string{"amigo", "familiar", "colega", "vecino", "conocido"}
)

func pick(rng *rand.Rand, xs []string) string {
	return xs[rng.Intn(len(xs))]
}

func nationalID(rng *rand.Rand) string {
	letter := pick(rng, []string{"V", "E"})
	return fmt.Sprintf("%s-%d", letter, 5000000+rng.Intn(30000000))
}

func phone(rng *rand.Rand) string {
	return fmt.Sprintf("%s%d", pick(rng, phonePrefixes), 1000000+rng.Intn(9000000))
}

func birthDate(rng *rand.Rand) string {
	// Between 18 and 65 years old.
	days := 18*365 + rng.Intn(47*365)
	return time.Now().AddDate(0, 0, -days).Format("2006-01-02")
}

func monthlyIncome(rng *rand.Rand, activity string) float64 {
	if activity == "dependencia" {
		return float64(int((300+rng.Float64()*2200)*100)) / 100
	}
	return float64(int((200+rng.Float64()*3300)*100)) / 100
}

func strPtr(s string) *string { return &s }

func generateUser(rng *rand.Rand, n int) *models.RegistrationPayload {
	first := pick(rng, firstNames)
	last := pick(rng, lastNames)
	fullName := first + " " + last

	activity := pick(rng, []string{"dependencia", "negocio"})
	position := pick(rng, employeePositions)
	if activity == "negocio" {
		position = pick(rng, businessPositions)
	}

	handle := strings.ToLower(strings.ReplaceAll(first, " ", ""))
	suffix := 10 + rng.Intn(990)

	p := &models.RegistrationPayload{
		Email:         fmt.Sprintf("test%d@impulsame.com", n),
		FullName:      fullName,
		BirthDate:     birthDate(rng),
		NationalID:    nationalID(rng),
		Phone1:        phone(rng),
		Address:       fmt.Sprintf("%s, Casa #%d, %s", pick(rng, sectors), 1+rng.Intn(999), pick(rng, cities)),
		Instagram:     strPtr(fmt.Sprintf("@%s%d", handle, suffix)),
		Facebook:      strPtr(fmt.Sprintf("%s.%d", handle, suffix)),
		Ref1Name:      pick(rng, firstNames) + " " + pick(rng, lastNames),
		Ref1Relation:  pick(rng, relations),
		Ref2Name:      pick(rng, firstNames) + " " + pick(rng, lastNames),
		Ref2Relation:  pick(rng, relations),
		MonthlyIncome: monthlyIncome(rng, activity),
		ActivityType:  activity,
		Position:      position,
	}

	if rng.Intn(2) == 0 {
		p.Phone2 = strPtr(phone(rng))
	}
	if rng.Intn(2) == 0 {
		p.TikTok = strPtr("@" + handle + "_oficial")
	}

	return p
}

func postUser(endpoint string, body []byte) error {
	resp, err := http.Post(endpoint+"/api/users/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("-> %d %s\n", resp.StatusCode, strings.TrimSpace(string(out)))
	return nil
}

func main() {
	count := flag.Int("n", 5, "number of users to generate")
	endpoint := flag.String("endpoint", "", "intake API base URL; omit to only print payloads")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	for i := 1; i <= *count; i++ {
		user := generateUser(rng, i)

		body, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			log.Fatalf("marshal user %d: %v", i, err)
		}

		fmt.Printf("--- user %d ---\n%s\n", i, body)

		if *endpoint != "" {
			if err := postUser(strings.TrimRight(*endpoint, "/"), body); err != nil {
				log.Printf("post user %d: %v", i, err)
			}
		}
	}
}
